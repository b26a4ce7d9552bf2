package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orders = "CustomerID,CustomerName,City,State,Country,SellerID,Brand,Category,ProductID,ProductName," +
	"OrderID,OrderDate,PaymentMethod,OrderStatus,ShippingCost,TotalAmount,Quantity,UnitPrice,Discount,Tax\n" +
	"C1,Ann,Paris,IDF,France,S1,Acme,Home,P1,Lamp,O1,2024-03-15,Card,Delivered,5.00,24.50,2,10.00,0.1,1.50\n"

func useSQLite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORE_DATABASE_DRIVER", "sqlite")
	t.Setenv("STORE_DATABASE_PATH", filepath.Join(dir, "store.db"))
	t.Setenv("STORE_DATABASE_AUTO_MIGRATE", "true")
	t.Setenv("STORE_LOG_LEVEL", "error")
	return dir
}

func TestRun(t *testing.T) {
	t.Run("missing file is reported and fails", func(t *testing.T) {
		dir := useSQLite(t)
		missing := filepath.Join(dir, "nope.csv")
		var out bytes.Buffer

		code := run(missing, &out)

		assert.Equal(t, 1, code)
		assert.Contains(t, out.String(), "File not found: "+missing)
		assert.NotContains(t, out.String(), "Found")
	})

	t.Run("imports a file and prints the summary", func(t *testing.T) {
		dir := useSQLite(t)
		path := filepath.Join(dir, "orders.csv")
		require.NoError(t, os.WriteFile(path, []byte(orders), 0o600))
		var out bytes.Buffer

		code := run(path, &out)

		assert.Equal(t, 0, code)
		assert.Contains(t, out.String(), "Found 1 rows to import")
		assert.Contains(t, out.String(), "Successfully imported 1 rows!")
		assert.Contains(t, out.String(), "OrderItems")
	})

	t.Run("parse failure exits non-zero", func(t *testing.T) {
		dir := useSQLite(t)
		path := filepath.Join(dir, "bad.csv")
		bad := bytes.Replace([]byte(orders), []byte("2024-03-15"), []byte("15/03/2024"), 1)
		require.NoError(t, os.WriteFile(path, bad, 0o600))
		var out bytes.Buffer

		code := run(path, &out)

		assert.Equal(t, 1, code)
		assert.Contains(t, out.String(), "Import failed:")
	})
}
