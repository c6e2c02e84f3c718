package store

import "time"

// LoadGoals returns every persisted seller goal.
func (c *Cache) LoadGoals() (map[string]float64, error) {
	rows, err := c.db.Query("SELECT seller, goal FROM goals")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	goals := make(map[string]float64)
	for rows.Next() {
		var seller string
		var goal float64
		if err := rows.Scan(&seller, &goal); err != nil {
			return nil, err
		}
		goals[seller] = goal
	}
	return goals, rows.Err()
}

// SaveGoal upserts one seller goal.
func (c *Cache) SaveGoal(seller string, goal float64) error {
	_, err := c.db.Exec(`INSERT INTO goals (seller, goal, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(seller) DO UPDATE SET goal = excluded.goal, updated_at = excluded.updated_at`,
		seller, goal, c.now().UTC().Format(time.RFC3339))
	return err
}

// DeleteGoal removes one seller goal. Deleting a missing seller is not an error.
func (c *Cache) DeleteGoal(seller string) error {
	_, err := c.db.Exec("DELETE FROM goals WHERE seller = ?", seller)
	return err
}

// ReplaceGoals overwrites the whole goal table with goals.
func (c *Cache) ReplaceGoals(goals map[string]float64) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM goals"); err != nil {
		return err
	}
	now := c.now().UTC().Format(time.RFC3339)
	for seller, goal := range goals {
		if _, err := tx.Exec("INSERT INTO goals (seller, goal, updated_at) VALUES (?, ?, ?)", seller, goal, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}
