package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOFF(endpoints ...string) *OpenFoodFactsService {
	return &OpenFoodFactsService{
		endpoints: endpoints,
		lang:      "sk",
		client:    &http.Client{Timeout: 2 * time.Second},
	}
}

func productServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/api/v2/product/")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
}

func TestLookupPrefersNationalEndpoint(t *testing.T) {
	national := productServer(t, `{"status":1,"product":{"product_name":"Chlieb rascový","brands":"Pekáreň"}}`)
	defer national.Close()
	global := productServer(t, `{"status":1,"product":{"product_name":"Generic Bread"}}`)
	defer global.Close()

	rec, err := testOFF(national.URL, global.URL).Lookup("8586000000001")

	require.NoError(t, err)
	assert.Equal(t, "Chlieb rascový", rec.Name)
	assert.Equal(t, "Pekáreň", rec.Brand)
	assert.Equal(t, "8586000000001", rec.Code)
}

func TestLookupFallsThroughOnMiss(t *testing.T) {
	national := productServer(t, `{"status":0}`)
	defer national.Close()
	global := productServer(t, `{"status":1,"product":{"product_name":"Generic Bread"}}`)
	defer global.Close()

	rec, err := testOFF(national.URL, global.URL).Lookup("123")

	require.NoError(t, err)
	assert.Equal(t, "Generic Bread", rec.Name)
}

func TestLookupFallsThroughOnServerError(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer broken.Close()
	global := productServer(t, `{"status":1,"product":{"product_name":"Still Works"}}`)
	defer global.Close()

	rec, err := testOFF(broken.URL, global.URL).Lookup("123")

	require.NoError(t, err)
	assert.Equal(t, "Still Works", rec.Name)
}

func TestLookupNotFoundAfterAllEndpoints(t *testing.T) {
	a := productServer(t, `{"status":0}`)
	defer a.Close()
	b := productServer(t, `{"status":1}`) // status 1 but no product body
	defer b.Close()

	_, err := testOFF(a.URL, b.URL).Lookup("000")

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestNormalizePrefersLocalizedIngredients(t *testing.T) {
	srv := productServer(t, `{"status":1,"product":{
		"product_name":"Keksy",
		"ingredients_text":"wheat flour, sugar",
		"ingredients_text_sk":"pšeničná múka, cukor",
		"allergens_tags":["en:gluten"],
		"traces":"mlieko",
		"traces_tags":["en:milk"],
		"labels":"Bez konzervantov",
		"labels_tags":["en:no-preservatives"],
		"lang":"sk"
	}}`)
	defer srv.Close()

	rec, err := testOFF(srv.URL).Lookup("456")

	require.NoError(t, err)
	assert.Equal(t, "pšeničná múka, cukor", rec.IngredientText)
	assert.Equal(t, []string{"en:gluten"}, rec.AllergenTags)
	// traces and their tags fold into one searchable string
	assert.Contains(t, rec.Traces, "mlieko")
	assert.Contains(t, rec.Traces, "en:milk")
	// label claims include labels, traces and traces_tags
	assert.Contains(t, rec.LabelClaims, "Bez konzervantov")
	assert.Contains(t, rec.LabelClaims, "en:no-preservatives")
	assert.Contains(t, rec.LabelClaims, "mlieko")
	assert.Equal(t, "sk", rec.Lang)
}

func TestNormalizeGenericFallback(t *testing.T) {
	srv := productServer(t, `{"status":1,"product":{
		"product_name":"Imported Snack",
		"ingredients_text":"corn, salt"
	}}`)
	defer srv.Close()

	rec, err := testOFF(srv.URL).Lookup("789")

	require.NoError(t, err)
	assert.Equal(t, "corn, salt", rec.IngredientText)
	// service default fills the missing lang
	assert.Equal(t, "sk", rec.Lang)
}
