package catalog

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boilerquote/errs"
)

const smallDoc = `{
  "version": "t1",
  "boilerTypes": [{"id": "combi-old", "name": "Old combi", "basePackId": "pack-a"}],
  "packs": [{"id": "pack-a", "name": "A pack", "hours": 2, "parts": [{"name": "Caps", "cost": 20, "hours": 0.5}, {"name": "Skip", "cost": 30}]}],
  "systemOptions": [
    {"id": "sys-combi", "name": "Combi", "boilerType": "combi"},
    {"id": "sys-open", "name": "Any"}
  ],
  "boilers": [
    {"id": "b1", "name": "Combi one", "type": "combi", "cost": 1000, "flueIds": ["f2", "missing", "f1"]},
    {"id": "b2", "name": "System two", "type": "system", "cost": 900},
    {"id": "b3", "name": "Combi three", "type": "combi", "cost": 1100}
  ],
  "flues": [
    {"id": "f1", "name": "Horizontal", "cost": 90},
    {"id": "f2", "name": "Vertical", "cost": 200, "variants": [{"id": "v1", "label": "Pitched"}, {"id": "v2", "label": "Flat"}]}
  ]
}`

func mustLoad(t *testing.T, doc string) *Catalog {
	t.Helper()
	c, err := Load([]byte(doc))
	require.NoError(t, err)
	return c
}

func TestLoadDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.NotEmpty(t, c.Version())
	assert.NotEmpty(t, c.Boilers())
	assert.NotEmpty(t, c.Flues())
	assert.NotEmpty(t, c.Snippets(SnippetBoiler))

	// Every boiler type's base pack in the bundled book resolves.
	for _, bt := range c.BoilerTypes() {
		if bt.BasePackID != "" {
			assert.NotNil(t, c.Pack(bt.BasePackID), "base pack for %s", bt.ID)
		}
	}
}

func TestLoadToleratesAbsentCollections(t *testing.T) {
	c := mustLoad(t, `{}`)

	assert.Empty(t, c.Customers())
	assert.Empty(t, c.Components())
	assert.Nil(t, c.Boiler("anything"))
	assert.Nil(t, c.Snippets(SnippetFlue))
	assert.Equal(t, "", c.Version())
}

func TestLoadRejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantIssue string
	}{
		{"empty", "  ", "document is empty"},
		{"not json", "{boilers:", ""},
		{"wrong shape", `{"boilers": {"id": "b1"}}`, ""},
		{"missing id", `{"boilers": [{"name": "No id"}]}`, "boilers[0].id is required"},
		{"negative cost", `{"components": [{"id": "c1", "name": "Valve", "cost": -5}]}`, "components[0].cost must be at least 0"},
		{"bad email", `{"customers": [{"id": "c1", "name": "A", "email": "nope"}]}`, "customers[0].email must be a valid email"},
		{"nested part", `{"packs": [{"id": "p1", "name": "P", "parts": [{"cost": 1}]}]}`, "packs[0].parts[0].name is required"},
		{"duplicate id", `{"flues": [{"id": "f1", "name": "A"}, {"id": "f1", "name": "B"}]}`, `flues: duplicate id "f1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load([]byte(tt.doc))
			require.Error(t, err)
			assert.Nil(t, c)

			var malformed *MalformedCatalogError
			require.True(t, errors.As(err, &malformed))
			assert.True(t, errs.Is(err, errs.CodeCatalogLoad))
			if tt.wantIssue != "" {
				assert.Contains(t, malformed.Issues, tt.wantIssue)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.CodeCatalogLoad))
}

func TestLookupsAreNullSafe(t *testing.T) {
	c := mustLoad(t, smallDoc)

	assert.NotNil(t, c.Boiler("b1"))
	assert.Nil(t, c.Boiler(""))
	assert.Nil(t, c.Flue("missing"))
	assert.Nil(t, c.Customer("x"))
	assert.Nil(t, c.GasOption("x"))
	assert.Nil(t, c.CondensateOption("x"))

	var nilCatalog *Catalog
	assert.Nil(t, nilCatalog.Boiler("b1"))
	assert.Nil(t, nilCatalog.Boilers())
	assert.Equal(t, "", nilCatalog.Version())
}

func TestByID(t *testing.T) {
	c := mustLoad(t, smallDoc)

	got := c.ByID(CollectionBoilers, "b2")
	require.NotNil(t, got)
	boiler, ok := got.(*Boiler)
	require.True(t, ok)
	assert.Equal(t, "System two", boiler.Name)

	assert.Nil(t, c.ByID(CollectionBoilers, "nope"))
	assert.Nil(t, c.ByID("spaceships", "b2"))
	assert.NotNil(t, c.ByID(CollectionPacks, "pack-a"))
	assert.NotNil(t, c.ByID(CollectionSystemOptions, "sys-open"))
}

func TestPackArithmetic(t *testing.T) {
	c := mustLoad(t, smallDoc)
	p := c.Pack("pack-a")
	require.NotNil(t, p)

	assert.InDelta(t, 50.0, p.Cost(), 0.0001)
	assert.InDelta(t, 2.5, p.TotalHours(), 0.0001)
}

func TestEligibleBoilers(t *testing.T) {
	c := mustLoad(t, smallDoc)

	ids := func(bs []Boiler) []string {
		out := make([]string, 0, len(bs))
		for _, b := range bs {
			out = append(out, b.ID)
		}
		return out
	}

	assert.Equal(t, []string{"b1", "b3"}, ids(c.EligibleBoilers("sys-combi")))
	// No boilerType declared means no constraint.
	assert.Equal(t, []string{"b1", "b2", "b3"}, ids(c.EligibleBoilers("sys-open")))
	assert.Equal(t, []string{"b1", "b2", "b3"}, ids(c.EligibleBoilers("unknown")))
}

func TestEligibleFluesFollowsBoilerOrderAndSkipsDangling(t *testing.T) {
	c := mustLoad(t, smallDoc)

	flues := c.EligibleFlues("b1")
	require.Len(t, flues, 2)
	assert.Equal(t, "f2", flues[0].ID)
	assert.Equal(t, "f1", flues[1].ID)

	assert.Empty(t, c.EligibleFlues("b2"))
	assert.Nil(t, c.EligibleFlues("nope"))
}

func TestFlueVariantHelpers(t *testing.T) {
	c := mustLoad(t, smallDoc)

	f2 := c.Flue("f2")
	require.NotNil(t, f2)
	assert.Equal(t, "v1", f2.DefaultVariantID())
	assert.Equal(t, "Flat", f2.Variant("v2").Label)
	assert.Nil(t, f2.Variant("v9"))

	assert.Equal(t, "", c.Flue("f1").DefaultVariantID())
}

func TestReturnedSlicesDoNotAliasCatalog(t *testing.T) {
	c := mustLoad(t, smallDoc)

	boilers := c.Boilers()
	boilers[0].Name = "changed"

	assert.Equal(t, "Combi one", c.Boiler("b1").Name)

	b := c.Boiler("b1")
	b.Cost = 1
	assert.Equal(t, 1000.0, c.Boiler("b1").Cost)
}
