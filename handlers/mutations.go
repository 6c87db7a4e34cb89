package handlers

import (
	"net/http"
	"slices"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"boilerquote/errs"
	"boilerquote/quote"
	"boilerquote/services"
	"boilerquote/session"
)

// operation binds a request body to a resolver call.
type operation func(e *core.RequestEvent) (session.Mutation, error)

// bind decodes and validates a T from the body and applies it with fn.
func bind[T any](fn func(r *quote.Resolver, st quote.State, req T) quote.State) operation {
	return func(e *core.RequestEvent) (session.Mutation, error) {
		var req T
		if err := bindRequest(e, &req); err != nil {
			return nil, err
		}
		return func(r *quote.Resolver, st quote.State) quote.State {
			return fn(r, st, req)
		}, nil
	}
}

type systemRequest struct {
	SystemID string `json:"systemId"`
}

type boilerRequest struct {
	BoilerID string `json:"boilerId"`
}

type flueRequest struct {
	FlueID    string `json:"flueId"`
	VariantID string `json:"variantId"`
}

type flueVariantRequest struct {
	VariantID string `json:"variantId"`
}

type existingTypeRequest struct {
	TypeID string `json:"typeId"`
}

type customerRequest struct {
	CustomerID string `json:"customerId"`
}

type labourRateRequest struct {
	Rate *float64 `json:"rate" validate:"required"`
}

// measurementsRequest takes either the three axes or an "HxWxD" string.
type measurementsRequest struct {
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Notes  string  `json:"notes"`
	HWD    string  `json:"hwd"`
}

type headroomRequest struct {
	AvailableMm *float64 `json:"availableMm"`
}

type toggleRequest struct {
	ID string `json:"id" validate:"required"`
	On bool   `json:"on"`
}

type componentRequest struct {
	ComponentID string `json:"componentId" validate:"required"`
	Quantity    int    `json:"quantity"`
}

type checklistRequest struct {
	List   string `json:"list" validate:"required,oneof=photos observations"`
	ItemID string `json:"itemId" validate:"required"`
	Done   bool   `json:"done"`
	Notes  string `json:"notes"`
}

type checklistItemRequest struct {
	List  string `json:"list" validate:"required,oneof=photos observations"`
	Label string `json:"label" validate:"required"`
}

type extraRequest struct {
	Label string  `json:"label" validate:"required"`
	Cost  float64 `json:"cost" validate:"gte=0"`
	Hours float64 `json:"hours" validate:"gte=0"`
}

type extraRemoveRequest struct {
	ExtraID string `json:"extraId" validate:"required"`
}

type textRequest struct {
	Value string `json:"value"`
}

type notesFormatRequest struct {
	Mode string `json:"mode" validate:"required,oneof=arrows semicolons"`
	On   bool   `json:"on"`
}

var operations = map[string]operation{
	"system": bind(func(r *quote.Resolver, st quote.State, req systemRequest) quote.State {
		return r.SetNewSystem(st, req.SystemID)
	}),
	"boiler": bind(func(r *quote.Resolver, st quote.State, req boilerRequest) quote.State {
		return r.SetBoiler(st, req.BoilerID)
	}),
	"flue": bind(func(r *quote.Resolver, st quote.State, req flueRequest) quote.State {
		return r.SetFlue(st, req.FlueID, req.VariantID)
	}),
	"flue-variant": bind(func(r *quote.Resolver, st quote.State, req flueVariantRequest) quote.State {
		return r.SetFlueVariant(st, req.VariantID)
	}),
	"existing-type": bind(func(r *quote.Resolver, st quote.State, req existingTypeRequest) quote.State {
		return r.SetExistingType(st, req.TypeID)
	}),
	"customer": bind(func(r *quote.Resolver, st quote.State, req customerRequest) quote.State {
		return r.SetCustomer(st, req.CustomerID)
	}),
	"labour-rate": bind(func(r *quote.Resolver, st quote.State, req labourRateRequest) quote.State {
		return r.SetLabourRate(st, *req.Rate)
	}),
	"measurements": measurements,
	"headroom": bind(func(r *quote.Resolver, st quote.State, req headroomRequest) quote.State {
		return r.SetAvailableHeadroom(st, req.AvailableMm)
	}),
	"reduction": bind(func(r *quote.Resolver, st quote.State, req toggleRequest) quote.State {
		return r.ToggleReduction(st, req.ID, req.On)
	}),
	"gas": bind(func(r *quote.Resolver, st quote.State, req toggleRequest) quote.State {
		return r.ToggleGasOption(st, req.ID, req.On)
	}),
	"condensate": bind(func(r *quote.Resolver, st quote.State, req toggleRequest) quote.State {
		return r.ToggleCondensateOption(st, req.ID, req.On)
	}),
	"component": bind(func(r *quote.Resolver, st quote.State, req componentRequest) quote.State {
		return r.SetComponentQuantity(st, req.ComponentID, req.Quantity)
	}),
	"checklist": bind(func(r *quote.Resolver, st quote.State, req checklistRequest) quote.State {
		return r.UpdateChecklistItem(st, req.List, req.ItemID, req.Done, req.Notes)
	}),
	"checklist-item": bind(func(r *quote.Resolver, st quote.State, req checklistItemRequest) quote.State {
		return r.AddChecklistItem(st, req.List, req.Label)
	}),
	"extra": bind(func(r *quote.Resolver, st quote.State, req extraRequest) quote.State {
		return r.AddExtra(st, req.Label, req.Cost, req.Hours)
	}),
	"extra-remove": bind(func(r *quote.Resolver, st quote.State, req extraRemoveRequest) quote.State {
		return r.RemoveExtra(st, req.ExtraID)
	}),
	"lead": bind(func(r *quote.Resolver, st quote.State, req textRequest) quote.State {
		return r.SetLead(st, req.Value)
	}),
	"needs": bind(func(r *quote.Resolver, st quote.State, req textRequest) quote.State {
		return r.SetNeeds(st, req.Value)
	}),
	"notes": bind(func(r *quote.Resolver, st quote.State, req quote.Notes) quote.State {
		return r.SetNotes(st, req)
	}),
	"notes-format": bind(func(r *quote.Resolver, st quote.State, req notesFormatRequest) quote.State {
		notes := st.Notes
		notes.Free = services.ApplyFormat(notes.Free, req.Mode, req.On)
		return r.SetNotes(st, notes)
	}),
}

// measurements parses an "HxWxD" string up front so a malformed one is a
// validation error instead of a silent zero.
func measurements(e *core.RequestEvent) (session.Mutation, error) {
	var req measurementsRequest
	if err := bindRequest(e, &req); err != nil {
		return nil, err
	}
	m := quote.Measurements{Height: req.Height, Width: req.Width, Depth: req.Depth, Notes: req.Notes}
	if strings.TrimSpace(req.HWD) != "" {
		parsed, ok := services.ParseHWD(req.HWD)
		if !ok {
			return nil, errs.New(errs.CodeValidation, "invalid hwd").
				WithDetails(map[string]string{"hwd": "must look like 600x450x350"})
		}
		parsed.Notes = req.Notes
		m = parsed
	}
	return func(r *quote.Resolver, st quote.State) quote.State {
		return r.SetMeasurements(st, m)
	}, nil
}

// Operations lists the mutation names served under /api/quotes/{id}/{op}.
func Operations() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// HandleQuoteMutation applies the resolver operation named by {op} and
// returns the updated quote.
func HandleQuoteMutation(reg *Registry) func(*core.RequestEvent) error {
	return withSession(reg, func(e *core.RequestEvent, sess *session.Session) error {
		name := e.Request.PathValue("op")
		op, ok := operations[name]
		if !ok {
			return respondError(e, reg.Logger(), errs.New(errs.CodeNotFound, "unknown operation "+name))
		}
		m, err := op(e)
		if err != nil {
			return respondError(e, reg.Logger(), err)
		}
		st := sess.Apply(e.Request.Context(), m)
		return e.JSON(http.StatusOK, describe(sess, st))
	})
}
