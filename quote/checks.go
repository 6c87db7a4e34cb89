package quote

import (
	"fmt"
	"math"
	"strings"

	"boilerquote/catalog"
)

type CheckStatus string

const (
	CheckIncomplete CheckStatus = "incomplete"
	CheckPass       CheckStatus = "pass"
	CheckFail       CheckStatus = "fail"
)

// CheckResult is the outcome of a clearance or headroom check. Required and
// Available are millimetres; for the clearance check they are not used and
// the per-axis values are in Axes.
type CheckResult struct {
	Status    CheckStatus `json:"status"`
	Message   string      `json:"message"`
	Failed    []string    `json:"failed,omitempty"`
	Axes      []AxisCheck `json:"axes,omitempty"`
	Required  float64     `json:"required,omitempty"`
	Available float64     `json:"available,omitempty"`
}

type AxisCheck struct {
	Axis     string  `json:"axis"`
	Required float64 `json:"required"`
	Measured float64 `json:"measured"`
	OK       bool    `json:"ok"`
}

// CheckClearance compares the measured space against the selected boiler's
// minimum space. A zero minimum on an axis places no constraint on it.
func CheckClearance(cat *catalog.Catalog, s State) CheckResult {
	b := cat.Boiler(s.BoilerID)
	if b == nil {
		return CheckResult{Status: CheckIncomplete, Message: "Select a boiler to check the space."}
	}
	m := s.Measurements
	if m.Height <= 0 || m.Width <= 0 || m.Depth <= 0 {
		return CheckResult{Status: CheckIncomplete, Message: "Enter height, width and depth to check the space."}
	}

	res := CheckResult{Status: CheckPass}
	for _, a := range []AxisCheck{
		{Axis: "height", Required: b.MinSpace.Height, Measured: m.Height},
		{Axis: "width", Required: b.MinSpace.Width, Measured: m.Width},
		{Axis: "depth", Required: b.MinSpace.Depth, Measured: m.Depth},
	} {
		a.OK = a.Required <= 0 || a.Measured >= a.Required
		if !a.OK {
			res.Status = CheckFail
			res.Failed = append(res.Failed, a.Axis)
		}
		res.Axes = append(res.Axes, a)
	}

	need := fmt.Sprintf("%s x %s x %s mm", mm(b.MinSpace.Height), mm(b.MinSpace.Width), mm(b.MinSpace.Depth))
	got := fmt.Sprintf("%s x %s x %s mm", mm(m.Height), mm(m.Width), mm(m.Depth))
	if res.Status == CheckPass {
		res.Message = fmt.Sprintf("PASS: %s needs %s (HxWxD), measured %s.", b.Name, need, got)
		return res
	}
	short := make([]string, 0, len(res.Failed))
	for _, a := range res.Axes {
		if !a.OK {
			short = append(short, fmt.Sprintf("%s %s < %s", a.Axis, mm(a.Measured), mm(a.Required)))
		}
	}
	res.Message = fmt.Sprintf("FAIL: %s needs %s (HxWxD), measured %s; short on %s.", b.Name, need, got, strings.Join(short, ", "))
	return res
}

// CheckHeadroom compares the entered headroom against the selected flue's
// base requirement less the selected reductions, floored at zero.
func CheckHeadroom(cat *catalog.Catalog, s State) CheckResult {
	f := cat.Flue(s.FlueID())
	if f == nil {
		return CheckResult{Status: CheckIncomplete, Message: "Select a flue to check headroom."}
	}
	required := RequiredHeadroom(f, s.Headroom.ReductionIDsSelected)
	if s.Headroom.AvailableMm == nil {
		return CheckResult{
			Status:   CheckIncomplete,
			Required: required,
			Message:  fmt.Sprintf("%s needs %s mm headroom; enter the available headroom.", f.Name, mm(required)),
		}
	}

	available := *s.Headroom.AvailableMm
	res := CheckResult{Required: required, Available: available}
	if available >= required {
		res.Status = CheckPass
		res.Message = fmt.Sprintf("PASS: %s mm available, %s mm required.", mm(available), mm(required))
	} else {
		res.Status = CheckFail
		res.Message = fmt.Sprintf("FAIL: %s mm available, %s mm required.", mm(available), mm(required))
	}
	return res
}

// RequiredHeadroom is max(base - sum of selected reductions, 0). Ids that
// are not reductions of f are ignored.
func RequiredHeadroom(f *catalog.Flue, selected []string) float64 {
	if f == nil {
		return 0
	}
	required := f.Headroom.Base
	for _, id := range selected {
		if r := f.Headroom.Reduction(id); r != nil {
			required -= r.Value
		}
	}
	return math.Max(required, 0)
}

func mm(v float64) string {
	return fmt.Sprintf("%g", v)
}
