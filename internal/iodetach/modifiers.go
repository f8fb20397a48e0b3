package iodetach

import (
	"strconv"

	"github.com/beevik/etree"
	"github.com/hhlist/rosterdb/internal/iocat"
	"github.com/hhlist/rosterdb/pkg/bsdata"
)

// parseModifiers normalizes a force entry's modifier elements into
// evaluator rules. Visibility toggles are dropped, as is any rule with
// no dynamic dependency: a rule is kept only when its target field is
// a budget-cost id or at least one condition or repeat references a
// dynamic category.
func parseModifiers(force *etree.Element) []bsdata.ModifierRule {
	var rules []bsdata.ModifierRule

	for _, mod := range iocat.ModifierElements(force) {
		field := mod.SelectAttrValue("field", "")
		if field == "" || field == "hidden" {
			continue
		}

		effect, value, ok := modifierEffect(mod)
		if !ok {
			continue
		}

		rule := bsdata.ModifierRule{
			Effect:     effect,
			Field:      field,
			Value:      value,
			Conditions: parseConditions(mod),
			Repeats:    parseRepeats(mod),
		}

		if !bsdata.IsCostField(field) && !hasDynamicDependency(rule) {
			continue
		}
		rules = append(rules, rule)
	}

	return rules
}

// modifierEffect maps the declared modifier type onto the evaluator's
// two effects. "decrement" becomes a negated increment.
func modifierEffect(mod *etree.Element) (bsdata.ModifierEffect, float64, bool) {
	value := floatAttr(mod, "value")
	switch mod.SelectAttrValue("type", "") {
	case "increment":
		return bsdata.EffectIncrement, value, true
	case "decrement":
		return bsdata.EffectIncrement, -value, true
	case "set":
		return bsdata.EffectSet, value, true
	default:
		return "", 0, false
	}
}

func parseConditions(mod *etree.Element) []bsdata.ModifierCondition {
	var res []bsdata.ModifierCondition
	for _, cond := range conditionElements(mod) {
		res = append(res, bsdata.ModifierCondition{
			Type:    cond.SelectAttrValue("type", ""),
			Value:   floatAttr(cond, "value"),
			Field:   cond.SelectAttrValue("field", ""),
			Scope:   cond.SelectAttrValue("scope", ""),
			ChildID: cond.SelectAttrValue("childId", ""),
		})
	}
	return res
}

func parseRepeats(mod *etree.Element) []bsdata.ModifierRepeat {
	var res []bsdata.ModifierRepeat
	for _, rep := range descendants(mod, "repeat") {
		childID := rep.SelectAttrValue("childId", "")
		if childID == "" {
			continue
		}
		weight := 1
		if v := rep.SelectAttrValue("repeats", ""); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				weight = n
			}
		}
		res = append(res, bsdata.ModifierRepeat{ChildID: childID, Weight: weight})
	}
	return res
}

func hasDynamicDependency(rule bsdata.ModifierRule) bool {
	for _, c := range rule.Conditions {
		if bsdata.IsDynamicCategory(c.ChildID) {
			return true
		}
	}
	for _, r := range rule.Repeats {
		if bsdata.IsDynamicCategory(r.ChildID) {
			return true
		}
	}
	return false
}

// conditionElements collects every condition under a modifier,
// including those nested in condition groups.
func conditionElements(mod *etree.Element) []*etree.Element {
	return descendants(mod, "condition")
}

// descendants collects every descendant element with the given local
// tag, in document order.
func descendants(el *etree.Element, tag string) []*etree.Element {
	var res []*etree.Element
	for _, ch := range el.ChildElements() {
		if ch.Tag == tag {
			res = append(res, ch)
		}
		res = append(res, descendants(ch, tag)...)
	}
	return res
}

func floatAttr(el *etree.Element, name string) float64 {
	v, err := strconv.ParseFloat(el.SelectAttrValue(name, "0"), 64)
	if err != nil {
		return 0
	}
	return v
}
