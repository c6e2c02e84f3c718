package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestSheetsSource_Fetch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"range": "Vendas!A1:E3",
			"majorDimension": "ROWS",
			"values": [
				["Dias", "Valor Venda", "Lucro", "Vendedor", "Ano"],
				[15, 52000.5, 3100, "Ana", "2020"],
				[-1, 18000, 400, "Repasse"]
			]
		}`))
	}))
	defer srv.Close()

	src := &SheetsSource{
		SpreadsheetID: "sheet-123",
		Range:         "Vendas!A:E",
		ClientOptions: []option.ClientOption{
			option.WithEndpoint(srv.URL + "/"),
			option.WithoutAuthentication(),
		},
	}

	result, err := src.Fetch(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.Contains(gotPath, "sheet-123"), "path %q should contain spreadsheet id", gotPath)
	require.Len(t, result.Records, 2)
	assert.Equal(t, 52000.5, result.Records[0].ValorVenda)
	assert.Equal(t, -1.0, result.Records[1].Dias)
	assert.Equal(t, "", result.Records[1].AnoMod)
	assert.Equal(t, "sheets:sheet-123!Vendas!A:E", src.Key())
}

func TestSheetsSource_MissingConfig(t *testing.T) {
	_, err := (&SheetsSource{}).Fetch(context.Background())
	assert.Error(t, err)

	_, err = (&SheetsSource{SpreadsheetID: "x"}).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials")
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", cellString(nil))
	assert.Equal(t, "1234.5", cellString(1234.5))
	assert.Equal(t, "1000000000000000000000", cellString(1e21))
	assert.Equal(t, "TRUE", cellString(true))
	assert.Equal(t, "Ana", cellString("Ana"))
}
