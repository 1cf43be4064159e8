package earthengine

import "strconv"

// The Earth Engine v1 API evaluates serialized expression graphs: a flat table of
// named value nodes plus a pointer to the result node. Computed nodes are stored in
// the table and referenced by name; literals are inlined as constants.
//
// The builder below covers the operations the index pipeline needs. It is not a
// general client; functions map one-to-one onto platform algorithm names.

// Expression is the wire form of a server-side computation.
type Expression struct {
	Values map[string]ValueNode `json:"values"`
	Result string               `json:"result"`
}

// ValueNode is one node of the expression graph. Exactly one field is set.
type ValueNode struct {
	ConstantValue           any                 `json:"constantValue,omitempty"`
	FunctionInvocationValue *FunctionInvocation `json:"functionInvocationValue,omitempty"`
	ValueReference          string              `json:"valueReference,omitempty"`
}

// FunctionInvocation names a platform algorithm and its arguments.
type FunctionInvocation struct {
	FunctionName string               `json:"functionName"`
	Arguments    map[string]ValueNode `json:"arguments"`
}

// Graph accumulates expression nodes. Not safe for concurrent use; build one per
// request.
type Graph struct {
	nodes map[string]ValueNode
	next  int
}

// Node references a computed value within its graph.
type Node struct {
	g   *Graph
	ref string
}

func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]ValueNode)}
}

// invoke stores a function invocation and returns a reference to it.
// Arguments of type Node become value references; everything else is inlined as a
// constant.
func (g *Graph) invoke(fn string, args map[string]any) Node {
	inv := &FunctionInvocation{
		FunctionName: fn,
		Arguments:    make(map[string]ValueNode, len(args)),
	}
	for name, v := range args {
		if n, ok := v.(Node); ok {
			inv.Arguments[name] = ValueNode{ValueReference: n.ref}
			continue
		}
		inv.Arguments[name] = ValueNode{ConstantValue: v}
	}
	ref := strconv.Itoa(g.next)
	g.next++
	g.nodes[ref] = ValueNode{FunctionInvocationValue: inv}
	return Node{g: g, ref: ref}
}

// Expression finalizes the graph with result as its root.
func (g *Graph) Expression(result Node) Expression {
	return Expression{Values: g.nodes, Result: result.ref}
}

// LoadCollection references a named image collection on the platform.
func (g *Graph) LoadCollection(id string) Node {
	return g.invoke("ImageCollection.load", map[string]any{"id": id})
}

// Polygon builds a geometry from a list of linear rings of [lon, lat] pairs.
func (g *Graph) Polygon(rings [][][]float64) Node {
	return g.invoke("GeometryConstructors.Polygon", map[string]any{
		"coordinates": rings,
	})
}

// constantImage promotes a number to an image so it can appear in band arithmetic.
func (g *Graph) constantImage(v float64) Node {
	return g.invoke("Image.constant", map[string]any{"value": v})
}

// operand coerces x (Node or numeric) into a node usable as an image argument.
func (n Node) operand(x any) Node {
	switch v := x.(type) {
	case Node:
		return v
	case float64:
		return n.g.constantImage(v)
	case int:
		return n.g.constantImage(float64(v))
	default:
		panic("earthengine: operand must be a Node or a number")
	}
}

// FilterDate restricts a collection to [start, end). Dates are ISO "2006-01-02".
func (n Node) FilterDate(start, end string) Node {
	f := n.g.invoke("Filter.date", map[string]any{
		"start": start,
		"end":   end,
	})
	return n.g.invoke("Collection.filter", map[string]any{
		"collection": n,
		"filter":     f,
	})
}

// FilterLt keeps collection elements whose metadata property is below value.
func (n Node) FilterLt(property string, value float64) Node {
	f := n.g.invoke("Filter.lessThan", map[string]any{
		"leftField":  property,
		"rightValue": value,
	})
	return n.g.invoke("Collection.filter", map[string]any{
		"collection": n,
		"filter":     f,
	})
}

// Median reduces a collection to its per-pixel median composite.
func (n Node) Median() Node {
	return n.g.invoke("reduce.median", map[string]any{"collection": n})
}

// NormalizedDifference computes (b1 - b2) / (b1 + b2) over the named bands.
func (n Node) NormalizedDifference(b1, b2 string) Node {
	return n.g.invoke("Image.normalizedDifference", map[string]any{
		"input":     n,
		"bandNames": []string{b1, b2},
	})
}

// Select keeps a single named band.
func (n Node) Select(band string) Node {
	return n.g.invoke("Image.select", map[string]any{
		"input":         n,
		"bandSelectors": []string{band},
	})
}

// Rename names the (single) band of the image.
func (n Node) Rename(name string) Node {
	return n.g.invoke("Image.rename", map[string]any{
		"input": n,
		"names": []string{name},
	})
}

// Arithmetic over bands. The argument may be another Node or a number, which is
// promoted to a constant image the way the platform's own clients do.

func (n Node) Add(x any) Node {
	return n.g.invoke("Image.add", map[string]any{"image1": n, "image2": n.operand(x)})
}

func (n Node) Subtract(x any) Node {
	return n.g.invoke("Image.subtract", map[string]any{"image1": n, "image2": n.operand(x)})
}

func (n Node) Multiply(x any) Node {
	return n.g.invoke("Image.multiply", map[string]any{"image1": n, "image2": n.operand(x)})
}

func (n Node) Divide(x any) Node {
	return n.g.invoke("Image.divide", map[string]any{"image1": n, "image2": n.operand(x)})
}

func (n Node) Pow(x any) Node {
	return n.g.invoke("Image.pow", map[string]any{"image1": n, "image2": n.operand(x)})
}

func (n Node) Sqrt() Node {
	return n.g.invoke("Image.sqrt", map[string]any{"value": n})
}

// Clip masks the image to a geometry.
func (n Node) Clip(geometry Node) Node {
	return n.g.invoke("Image.clip", map[string]any{
		"input":    n,
		"geometry": geometry,
	})
}

// Visualize maps the band onto an RGB image using a value range and palette.
func (n Node) Visualize(min, max float64, palette []string) Node {
	return n.g.invoke("Image.visualize", map[string]any{
		"image":   n,
		"min":     []float64{min},
		"max":     []float64{max},
		"palette": palette,
	})
}
