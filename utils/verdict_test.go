package utils

import (
	"testing"

	"github.com/Matt9117/Intolerancies/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHardMatchInIngredientsIsAvoid(t *testing.T) {
	p := models.ProductRecord{IngredientText: "wheat flour, water, salt"}

	v := EvaluateProduct(p, []string{"gluten"})

	assert.Equal(t, StatusAvoid, v.Status)
	require.NotEmpty(t, v.Notes)
	assert.Contains(t, v.Notes[0], "gluten")
}

func TestHardMatchViaAllergenTag(t *testing.T) {
	p := models.ProductRecord{
		IngredientText: "rastlinný tuk, soľ",
		AllergenTags:   []string{"en:milk"},
	}

	v := EvaluateProduct(p, []string{"milk_protein"})

	assert.Equal(t, StatusAvoid, v.Status)
}

func TestAvoidAbsorbsLabelClaims(t *testing.T) {
	// a gluten-free claim must not rescue a product whose ingredients match
	p := models.ProductRecord{
		IngredientText: "wheat flour, water",
		LabelClaims:    "gluten-free",
	}

	v := EvaluateProduct(p, []string{"gluten"})

	assert.Equal(t, StatusAvoid, v.Status)
}

func TestEmptyProductIsMaybe(t *testing.T) {
	v := EvaluateProduct(models.ProductRecord{}, []string{"milk_protein"})

	assert.Equal(t, StatusMaybe, v.Status)
	require.NotEmpty(t, v.Notes)
	assert.Contains(t, v.Notes[0], "check the physical label")
}

func TestDeclaredSafeClaim(t *testing.T) {
	p := models.ProductRecord{
		IngredientText: "rice, water, salt",
		LabelClaims:    "en:gluten-free",
	}

	v := EvaluateProduct(p, []string{"gluten"})

	assert.Equal(t, StatusSafe, v.Status)
	require.NotEmpty(t, v.Notes)
	assert.Contains(t, v.Notes[0], "gluten-free")
}

func TestTraceDowngradesSafeToMaybe(t *testing.T) {
	p := models.ProductRecord{
		IngredientText: "rice, water, salt",
		LabelClaims:    "gluten free",
		Traces:         "môže obsahovať pšenicu",
	}

	v := EvaluateProduct(p, []string{"gluten"})

	assert.Equal(t, StatusMaybe, v.Status)
	assert.Contains(t, v.Notes[len(v.Notes)-1], "traces of gluten")
}

func TestTraceAloneNeverAvoids(t *testing.T) {
	p := models.ProductRecord{
		IngredientText: "rice, water, salt",
		Traces:         "wheat",
	}

	v := EvaluateProduct(p, []string{"gluten"})

	// maybe stays maybe, the trace only adds a caution note
	assert.Equal(t, StatusMaybe, v.Status)
	assert.Contains(t, v.Notes[len(v.Notes)-1], "traces of gluten")
}

func TestTraceNeverTouchesAvoid(t *testing.T) {
	p := models.ProductRecord{
		IngredientText: "wheat flour",
		Traces:         "milk",
	}

	v := EvaluateProduct(p, []string{"gluten", "milk_protein"})

	assert.Equal(t, StatusAvoid, v.Status)
}

func TestEmptySelectionFallsBackToDefaults(t *testing.T) {
	p := models.ProductRecord{IngredientText: "sušené mlieko, cukor"}

	v := EvaluateProduct(p, nil)

	// the default subset is gluten + milk protein, so milk must still match
	assert.Equal(t, StatusAvoid, v.Status)
	assert.Contains(t, v.Notes[0], "milk protein")
}

func TestNoteOrderFollowsEnumeration(t *testing.T) {
	p := models.ProductRecord{IngredientText: "wheat flour, milk powder, soy lecithin"}

	// pass keys in reverse of enumeration order on purpose
	v := EvaluateProduct(p, []string{"soy", "milk_protein", "gluten"})

	require.Len(t, v.Notes, 3)
	assert.Contains(t, v.Notes[0], "gluten")
	assert.Contains(t, v.Notes[1], "milk protein")
	assert.Contains(t, v.Notes[2], "soy")
}

func TestUnknownKeysAreIgnored(t *testing.T) {
	p := models.ProductRecord{IngredientText: "wheat flour"}

	v := EvaluateProduct(p, []string{"gluten", "nonsense"})

	assert.Equal(t, StatusAvoid, v.Status)
	assert.Len(t, v.Notes, 1)
}

func TestNeedsEscalation(t *testing.T) {
	maybe := Verdict{Status: StatusMaybe}
	safe := Verdict{Status: StatusSafe}

	assert.True(t, NeedsEscalation(models.ProductRecord{IngredientText: "rice"}, maybe))
	assert.True(t, NeedsEscalation(models.ProductRecord{IngredientText: "   "}, safe))
	assert.False(t, NeedsEscalation(models.ProductRecord{IngredientText: "rice"}, safe))
}

func TestCategoryKeysStable(t *testing.T) {
	keys := CategoryKeys()

	require.Len(t, keys, len(Categories))
	assert.Equal(t, "gluten", keys[0])
	assert.Equal(t, "milk_protein", keys[1])
	assert.True(t, IsValidCategory("sulphites"))
	assert.False(t, IsValidCategory("caffeine"))
}
