package intent

import (
	"fmt"
	"sort"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/travelica/travelica-backend/internal/types"
)

// ExtractTourParams normalizes a faq-tour-detail intent result into a
// catalog filter. Each field independently prefers the query-level
// parameters and falls back to the newest output context's parameters.
// Duration and budget take the largest extracted amount; an empty amount
// list is a hard error, never a default.
func ExtractTourParams(res *types.IntentResult) (*types.TourSearchParams, error) {
	days, err := maxAmount(pickField(res, "duration"))
	if err != nil {
		return nil, fmt.Errorf("duration: %w", err)
	}
	budget, err := maxAmount(pickField(res, "budget"))
	if err != nil {
		return nil, fmt.Errorf("budget: %w", err)
	}

	return &types.TourSearchParams{
		Places:            placeTokens(pickField(res, "place")),
		MaxBudget:         budget,
		MaxDurationDays:   days,
		MaxDurationNights: days - 1,
	}, nil
}

// pickField returns the values for key from the query parameters when
// present and non-empty, otherwise from the context parameters.
func pickField(res *types.IntentResult, key string) []*structpb.Value {
	if vs := fieldValues(res.Parameters, key); len(vs) > 0 {
		return vs
	}
	return fieldValues(res.ContextParameters, key)
}

func fieldValues(s *structpb.Struct, key string) []*structpb.Value {
	if s == nil {
		return nil
	}
	v, ok := s.Fields[key]
	if !ok {
		return nil
	}
	if lv := v.GetListValue(); lv != nil {
		return lv.Values
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil
	}
	// Scalar parameters arrive unwrapped when the entity is not a list.
	return []*structpb.Value{v}
}

// maxAmount collects the numeric amounts in vs, sorts them ascending and
// returns the largest. Values are either bare numbers or structs carrying
// an "amount" field, as Dialogflow system entities produce.
func maxAmount(vs []*structpb.Value) (int, error) {
	var amounts []int
	for _, v := range vs {
		switch kind := v.GetKind().(type) {
		case *structpb.Value_StructValue:
			if a, ok := kind.StructValue.Fields["amount"]; ok {
				amounts = append(amounts, int(a.GetNumberValue()))
			}
		case *structpb.Value_NumberValue:
			amounts = append(amounts, int(kind.NumberValue))
		}
	}
	if len(amounts) == 0 {
		return 0, types.ErrNoAmounts
	}
	sort.Ints(amounts)
	return amounts[len(amounts)-1], nil
}

// placeTokens lowercases each place value and strips all internal
// whitespace, preserving extraction order.
func placeTokens(vs []*structpb.Value) []string {
	var places []string
	for _, v := range vs {
		s := v.GetStringValue()
		if s == "" {
			continue
		}
		places = append(places, strings.Join(strings.Fields(strings.ToLower(s)), ""))
	}
	return places
}
