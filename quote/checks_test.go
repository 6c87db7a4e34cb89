package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHeadroom(t *testing.T) {
	cat := defaultCatalog(t)
	r := newTestResolver(cat)

	// flue-horizontal: base 180, red-plume 40.
	base := r.SetFlue(New(65), "flue-horizontal", "")
	base = r.ToggleReduction(base, "red-plume", true)

	tests := []struct {
		name      string
		available *float64
		want      CheckStatus
	}{
		{"enough", ptr(150), CheckPass},
		{"exact", ptr(140), CheckPass},
		{"short", ptr(100), CheckFail},
		{"not entered", nil, CheckIncomplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := r.SetAvailableHeadroom(base, tt.available)
			got := CheckHeadroom(cat, s)
			assert.Equal(t, tt.want, got.Status)
			assert.InDelta(t, 140.0, got.Required, 0.001)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestCheckHeadroomWithoutFlue(t *testing.T) {
	cat := defaultCatalog(t)
	r := newTestResolver(cat)

	s := r.SetAvailableHeadroom(New(65), ptr(500))
	assert.Equal(t, CheckIncomplete, CheckHeadroom(cat, s).Status)

	s.FlueSelection = &FlueSelection{FlueID: "gone"}
	assert.Equal(t, CheckIncomplete, CheckHeadroom(cat, s).Status)
}

func TestRequiredHeadroomFloorsAtZero(t *testing.T) {
	cat := defaultCatalog(t)
	f := cat.Flue("flue-vertical")
	require.NotNil(t, f)

	// 300 - 100 - 60
	assert.InDelta(t, 140.0, RequiredHeadroom(f, []string{"red-ext", "red-45"}), 0.001)
	assert.InDelta(t, 300.0, RequiredHeadroom(f, []string{"red-plume"}), 0.001)
	assert.Equal(t, 0.0, RequiredHeadroom(nil, nil))

	flue := *f
	flue.Headroom.Base = 50
	assert.Equal(t, 0.0, RequiredHeadroom(&flue, []string{"red-ext"}))
}

func TestCheckClearance(t *testing.T) {
	cat := defaultCatalog(t)
	r := newTestResolver(cat)

	// wb-2000-18r: minSpace 600 x 450 x 350.
	withBoiler := r.SetBoiler(New(65), "wb-2000-18r")

	tests := []struct {
		name       string
		boiler     bool
		m          Measurements
		want       CheckStatus
		wantFailed []string
	}{
		{"exact fit", true, Measurements{Height: 600, Width: 450, Depth: 350}, CheckPass, nil},
		{"roomy", true, Measurements{Height: 900, Width: 600, Depth: 400}, CheckPass, nil},
		{"short height", true, Measurements{Height: 500, Width: 450, Depth: 350}, CheckFail, []string{"height"}},
		{"short everywhere", true, Measurements{Height: 1, Width: 1, Depth: 1}, CheckFail, []string{"height", "width", "depth"}},
		{"missing depth", true, Measurements{Height: 600, Width: 450}, CheckIncomplete, nil},
		{"no boiler", false, Measurements{Height: 600, Width: 450, Depth: 350}, CheckIncomplete, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(65)
			if tt.boiler {
				s = withBoiler
			}
			s = r.SetMeasurements(s, tt.m)

			got := CheckClearance(cat, s)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.wantFailed, got.Failed)
			assert.NotEmpty(t, got.Message)
		})
	}

	fail := CheckClearance(cat, r.SetMeasurements(withBoiler, Measurements{Height: 500, Width: 450, Depth: 350}))
	assert.Contains(t, fail.Message, "height 500 < 600")
	pass := CheckClearance(cat, r.SetMeasurements(withBoiler, Measurements{Height: 600, Width: 450, Depth: 350}))
	assert.Contains(t, pass.Message, "600 x 450 x 350 mm")
}

func TestCheckClearanceUnsetMinimumIsNoConstraint(t *testing.T) {
	cat := defaultCatalog(t)
	doc := cat.Document()
	for i := range doc.Boilers {
		if doc.Boilers[i].ID == "wb-2000-18r" {
			doc.Boilers[i].MinSpace.Depth = 0
		}
	}
	reduced := reload(t, doc)

	s := New(65)
	s.BoilerID = "wb-2000-18r"
	s.Measurements = Measurements{Height: 600, Width: 450, Depth: 10}

	assert.Equal(t, CheckPass, CheckClearance(reduced, s).Status)
	assert.Equal(t, CheckFail, CheckClearance(cat, s).Status)
}
