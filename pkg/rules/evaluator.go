package rules

import (
	"math"

	"github.com/hhlist/rosterdb/pkg/bsdata"
)

// Evaluation is the result of applying a detachment's modifier rules
// to the current roster state: the adjusted slot table, the adjusted
// budget costs, and how many copies of this detachment the roster may
// contain (0 means unavailable under current conditions).
type Evaluation struct {
	Slots        map[string]bsdata.SlotLimits
	Costs        bsdata.DetachmentCosts
	MaxInstances int
}

// Evaluator applies a detachment template's modifier rules against a
// fixed roster state.
type Evaluator struct {
	state RosterState
}

// NewEvaluator creates an evaluator over one roster's dynamic state.
func NewEvaluator(state RosterState) *Evaluator {
	return &Evaluator{state: state}
}

// costAdjustment accumulates increment and set effects on one cost
// field. A set overrides any accumulated increments.
type costAdjustment struct {
	add float64
	set *float64
}

// Evaluate resolves a detachment's effective slot limits and costs.
// For a template with no stored rules this is the identity over its
// base tables.
func (e *Evaluator) Evaluate(tmpl bsdata.DetachmentTemplate) Evaluation {
	res := Evaluation{
		Slots:        copySlots(tmpl.Slots),
		Costs:        tmpl.Costs,
		MaxInstances: bsdata.UnlimitedMax,
	}
	if tmpl.Modifiers == nil || len(tmpl.Modifiers.Rules) == 0 {
		return res
	}

	fieldAdj := map[string]float64{}
	costAdj := map[string]*costAdjustment{}

	for _, rule := range tmpl.Modifiers.Rules {
		if !e.conditionsHold(rule.Conditions) {
			continue
		}

		switch rule.Effect {
		case bsdata.EffectIncrement:
			effective := rule.Value * float64(e.repeatMultiplier(rule.Repeats))
			if bsdata.IsCostField(rule.Field) {
				adj := costAdjFor(costAdj, rule.Field)
				adj.add += effective
			} else {
				fieldAdj[rule.Field] += effective
			}
		case bsdata.EffectSet:
			if bsdata.IsCostField(rule.Field) {
				v := rule.Value
				costAdjFor(costAdj, rule.Field).set = &v
			} else {
				fieldAdj[rule.Field] = rule.Value
			}
		}
	}

	for field, adj := range fieldAdj {
		key := tmpl.Modifiers.FieldTo[field]
		switch {
		case key == "":
			continue
		case key == bsdata.DetachmentInstancesKey:
			res.MaxInstances = max(0, int(adj))
		default:
			limits, ok := res.Slots[key]
			if !ok {
				continue
			}
			limits.Max = max(0, limits.Max+int(adj))
			res.Slots[key] = limits
		}
	}

	res.Costs.Auxiliary = adjustCost(tmpl.Costs.Auxiliary,
		costAdj[bsdata.CostTypeAuxiliary])
	res.Costs.Apex = adjustCost(tmpl.Costs.Apex,
		costAdj[bsdata.CostTypeApex])

	return res
}

// conditionsHold reports whether every condition passes. A condition
// referencing the faction's own catalogue id is always true, as is an
// instanceOf check (the only instanceOf the data uses is the faction
// one).
func (e *Evaluator) conditionsHold(conds []bsdata.ModifierCondition) bool {
	for _, cond := range conds {
		if cond.ChildID == bsdata.SolarAuxiliaCatalogueID {
			continue
		}
		if cond.Type == bsdata.CondInstanceOf {
			continue
		}

		count := e.state.SelectionCount(cond.ChildID)
		threshold := int(cond.Value)

		switch cond.Type {
		case bsdata.CondEqualTo:
			if count != threshold {
				return false
			}
		case bsdata.CondLessThan:
			if count >= threshold {
				return false
			}
		case bsdata.CondAtLeast:
			if count < threshold {
				return false
			}
		case bsdata.CondGreaterThan:
			if count <= threshold {
				return false
			}
		}
	}
	return true
}

// repeatMultiplier sums matching-selection counts weighted per repeat.
// No repeats means the rule applies once.
func (e *Evaluator) repeatMultiplier(repeats []bsdata.ModifierRepeat) int {
	if len(repeats) == 0 {
		return 1
	}
	total := 0
	for _, rep := range repeats {
		total += e.state.SelectionCount(rep.ChildID) * rep.Weight
	}
	return total
}

// adjustCost applies a cost field's accumulated adjustment. A set
// value under 1.0 is a multiplier on the base cost, rounded; any
// other set, and accumulated increments, adjust additively.
func adjustCost(base int, adj *costAdjustment) int {
	if adj == nil {
		return base
	}
	if adj.set != nil {
		if *adj.set < 1.0 {
			return max(0, int(math.Round(float64(base)**adj.set)))
		}
		return base + int(*adj.set)
	}
	return base + int(adj.add)
}

func costAdjFor(m map[string]*costAdjustment, field string) *costAdjustment {
	if m[field] == nil {
		m[field] = &costAdjustment{}
	}
	return m[field]
}

func copySlots(slots map[string]bsdata.SlotLimits) map[string]bsdata.SlotLimits {
	res := make(map[string]bsdata.SlotLimits, len(slots))
	for k, v := range slots {
		res[k] = v
	}
	return res
}
