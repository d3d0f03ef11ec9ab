package config

import (
	"fmt"
	"strconv"

	"github.com/decker502/fireworks/pkg/components"
	"gopkg.in/yaml.v3"
)

// WeightEntry 权重表中的一项
type WeightEntry struct {
	Kind   components.Kind
	Weight float64
}

// TypeWeights 有序的 {类型: 权重} 表
// 抽样按表顺序累加，因此保留 YAML 中的书写顺序
type TypeWeights []WeightEntry

// UnmarshalYAML 解析 YAML 映射并保留键顺序
func (w *TypeWeights) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: typeWeights must be a mapping", node.Line)
	}
	out := make(TypeWeights, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		kind, err := components.ParseKind(keyNode.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", keyNode.Line, err)
		}
		weight, err := strconv.ParseFloat(valNode.Value, 64)
		if err != nil {
			return fmt.Errorf("line %d: weight for %s: %w", valNode.Line, kind, err)
		}
		out = append(out, WeightEntry{Kind: kind, Weight: weight})
	}
	*w = out
	return nil
}

// MarshalYAML 输出为有序映射
func (w TypeWeights) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range w {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Kind.String()},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(e.Weight, 'g', -1, 64)},
		)
	}
	return node, nil
}

// Total 权重之和
func (w TypeWeights) Total() float64 {
	total := 0.0
	for _, e := range w {
		total += e.Weight
	}
	return total
}

// Weight 返回指定类型的权重（不存在时为 0）
func (w TypeWeights) Weight(kind components.Kind) float64 {
	for _, e := range w {
		if e.Kind == kind {
			return e.Weight
		}
	}
	return 0
}

// Normalized 返回权重和为 1 的副本；总和不为正时返回 nil
func (w TypeWeights) Normalized() TypeWeights {
	total := w.Total()
	if total <= 0 {
		return nil
	}
	out := make(TypeWeights, len(w))
	for i, e := range w {
		out[i] = WeightEntry{Kind: e.Kind, Weight: e.Weight / total}
	}
	return out
}
