package source

import (
	"errors"
	"testing"

	"github.com/theirongolddev/salesboard/internal/model"
)

func TestParseRows_Basic(t *testing.T) {
	rows := [][]string{
		{},
		{"Dias", "Valor Venda", "Lucro Líquido", "Vendedor", "Ano/Mod"},
		{"10", "R$ 50.000,00", "3.200,50", " Ana ", "2019/2020"},
		{"0", "42000", "", "Bruno", ""},
		{"", "", "", "", ""},
		{"5", "30.000,00", "1000", "Ana", "2021"},
	}

	result, err := ParseRows(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Records) != 3 {
		t.Fatalf("Records = %d, want 3", len(result.Records))
	}
	if result.Rows != 3 {
		t.Errorf("Rows = %d, want 3", result.Rows)
	}

	first := result.Records[0]
	want := model.SaleRecord{Dias: 10, ValorVenda: 50000, LucroLiquido: 3200.5, Vendedor: "Ana", AnoMod: "2019/2020"}
	if first != want {
		t.Errorf("Records[0] = %+v, want %+v", first, want)
	}

	if len(result.Sellers) != 2 || result.Sellers[0] != "Ana" || result.Sellers[1] != "Bruno" {
		t.Errorf("Sellers = %v, want [Ana Bruno]", result.Sellers)
	}
}

func TestParseRows_SkipsEmptySeller(t *testing.T) {
	rows := [][]string{
		{"vendedor", "dias"},
		{"", "4"},
		{"   ", "7"},
		{"Carla", "3"},
	}

	result, err := ParseRows(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", result.Skipped)
	}
	if len(result.Records) != 1 {
		t.Errorf("Records = %d, want 1", len(result.Records))
	}
}

func TestParseRows_CanonicalizesRepasse(t *testing.T) {
	rows := [][]string{
		{"Vendedor", "Valor"},
		{" REPASSE ", "100"},
		{"repasse", "50"},
	}

	result, err := ParseRows(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, r := range result.Records {
		if !r.IsRepasse() {
			t.Errorf("Records[%d].Vendedor = %q, want %q", i, r.Vendedor, model.RepasseSeller)
		}
	}
	if len(result.Sellers) != 1 {
		t.Errorf("Sellers = %v, want one Repasse entry", result.Sellers)
	}
}

func TestParseRows_Warnings(t *testing.T) {
	rows := [][]string{
		{"Vendedor", "Dias", "Valor"},
		{"Ana", "n/d", "abc"},
	}

	result, err := ParseRows(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Warnings != 2 {
		t.Errorf("Warnings = %d, want 2", result.Warnings)
	}
	if r := result.Records[0]; r.Dias != 0 || r.ValorVenda != 0 {
		t.Errorf("unparseable numbers = %+v, want zeros", r)
	}
}

func TestParseRows_Errors(t *testing.T) {
	if _, err := ParseRows(nil); !errors.Is(err, ErrNoHeader) {
		t.Errorf("ParseRows(nil) err = %v, want ErrNoHeader", err)
	}

	_, err := ParseRows([][]string{{"Dias", "Valor"}, {"1", "2"}})
	var mc *MissingColumnError
	if !errors.As(err, &mc) {
		t.Fatalf("err = %v, want MissingColumnError", err)
	}
	if mc.Column != "vendedor" {
		t.Errorf("Column = %q, want vendedor", mc.Column)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"", 0, true},
		{"42", 42, true},
		{"-3", -3, true},
		{"1234.56", 1234.56, true},
		{"1234,56", 1234.56, true},
		{"R$ 1.234,56", 1234.56, true},
		{"1,234.56", 1234.56, true},
		{"1.234.567", 1234567, true},
		{"1,234,567", 1234567, true},
		{"(250,00)", -250, true},
		{"R$ 45.000", 45000, true},
		{"R$ 1.234", 1234, true},
		{"1.234", 1234, true},
		{"R$ -1.500", -1500, true},
		{"12.5", 12.5, true},
		{"0.125", 0.125, true},
		{"1234.567", 1234.567, true},
		{"2019-2020", 0, false},
		{"12-", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseNumber(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Lucro Líquido", "lucroliquido"},
		{"  VENDEDOR ", "vendedor"},
		{"Ano/Mod", "anomod"},
		{"Dias em Estoque", "diasemestoque"},
		{"Valor_Venda", "valorvenda"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := normalizeHeader(tt.input); got != tt.want {
				t.Errorf("normalizeHeader(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
