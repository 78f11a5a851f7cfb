package merge

import (
	"sort"
	"strconv"
	"strings"

	"datafusion/core/table"
)

// Fill repairs missing values per column, choosing the strategy from
// the column's inferred kind. The input table is not mutated.
func Fill(t *table.Table, spec FillSpec) *table.Table {
	out := t.Clone()
	for _, name := range out.Names() {
		values, _ := out.Column(name)
		switch out.InferKind(name) {
		case table.KindNumber:
			fillNumeric(values, spec)
		case table.KindTime:
			fillDatetime(values, spec.Datetime)
		case table.KindText, table.KindBool:
			fillText(values, spec)
		}
	}
	return out
}

func fillNumeric(values []table.Value, spec FillSpec) {
	var replacement table.Value
	switch spec.Numeric {
	case FillZero:
		replacement = table.Number(0)
	case FillMean:
		sum, n := 0.0, 0
		for _, v := range values {
			if f, ok := v.Number(); ok {
				sum += f
				n++
			}
		}
		if n == 0 {
			return
		}
		replacement = table.Number(sum / float64(n))
	case FillMedian:
		var nums []float64
		for _, v := range values {
			if f, ok := v.Number(); ok {
				nums = append(nums, f)
			}
		}
		if len(nums) == 0 {
			return
		}
		sort.Float64s(nums)
		mid := len(nums) / 2
		if len(nums)%2 == 0 {
			replacement = table.Number((nums[mid-1] + nums[mid]) / 2)
		} else {
			replacement = table.Number(nums[mid])
		}
	case FillMode:
		m, ok := mode(values)
		if !ok {
			return
		}
		replacement = m
	case FillCustom:
		if f, err := strconv.ParseFloat(strings.TrimSpace(spec.CustomValue), 64); err == nil {
			replacement = table.Number(f)
		} else {
			replacement = table.Text(spec.CustomValue)
		}
	default:
		return
	}
	replaceMissing(values, replacement)
}

func fillText(values []table.Value, spec FillSpec) {
	var replacement table.Value
	switch spec.Text {
	case FillEmpty:
		replacement = table.Text("")
	case FillMode:
		m, ok := mode(values)
		if !ok {
			return
		}
		replacement = m
	case FillCustom:
		replacement = table.Parse(spec.CustomValue)
	default:
		return
	}
	replaceMissing(values, replacement)
}

func fillDatetime(values []table.Value, method FillMethod) {
	switch method {
	case FillForward:
		last := table.Missing()
		for i, v := range values {
			if v.IsMissing() {
				values[i] = last
			} else {
				last = v
			}
		}
	case FillBackward:
		next := table.Missing()
		for i := len(values) - 1; i >= 0; i-- {
			if values[i].IsMissing() {
				values[i] = next
			} else {
				next = values[i]
			}
		}
	}
}

// mode returns the most frequent non-missing value, first occurrence
// breaking ties.
func mode(values []table.Value) (table.Value, bool) {
	counts := make(map[string]int, len(values))
	firsts := make(map[string]table.Value, len(values))
	var orderedKeys []string
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		k := v.Key()
		if _, seen := counts[k]; !seen {
			firsts[k] = v
			orderedKeys = append(orderedKeys, k)
		}
		counts[k]++
	}
	best, bestCount := "", 0
	for _, k := range orderedKeys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	if bestCount == 0 {
		return table.Missing(), false
	}
	return firsts[best], true
}

func replaceMissing(values []table.Value, replacement table.Value) {
	for i, v := range values {
		if v.IsMissing() {
			values[i] = replacement
		}
	}
}
