package geometry

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// BVHNode is a node of a Bounding Volume Hierarchy. The tree is immutable once
// built and is shared read-only by every render worker.
type BVHNode struct {
	unsampled
	Left  Hittable
	Right Hittable
	box   core.AABB
}

// boundedObject pairs an object with its box so boxes are computed once per build
type boundedObject struct {
	object Hittable
	box    core.AABB
}

// NewBVHNode builds a BVH over objects for the shutter interval [time0, time1].
// The split axis at each node is drawn from sampler.
func NewBVHNode(objects []Hittable, time0, time1 float64, sampler core.Sampler) (*BVHNode, error) {
	if len(objects) == 0 {
		return nil, ErrEmptyBVH
	}

	// Work on a copy so the caller's slice order is untouched
	items := make([]boundedObject, len(objects))
	for i, object := range objects {
		box, ok := object.BoundingBox(time0, time1)
		if !ok {
			return nil, fmt.Errorf("%w: object %d", ErrNoBoundingBox, i)
		}
		items[i] = boundedObject{object: object, box: box}
	}

	return buildBVHNode(items, sampler), nil
}

// buildBVHNode splits items at the median of their box minimum along a random axis
func buildBVHNode(items []boundedObject, sampler core.Sampler) *BVHNode {
	axis := core.SampleIntRange(sampler, 0, 2)
	compare := func(a, b boundedObject) int {
		return cmp.Compare(a.box.Min.Component(axis), b.box.Min.Component(axis))
	}

	node := &BVHNode{}
	switch len(items) {
	case 1:
		node.Left, node.Right = items[0].object, items[0].object
		node.box = items[0].box
	case 2:
		first, second := items[0], items[1]
		if compare(first, second) > 0 {
			first, second = second, first
		}
		node.Left, node.Right = first.object, second.object
		node.box = core.SurroundingBox(first.box, second.box)
	default:
		slices.SortStableFunc(items, compare)
		mid := len(items) / 2
		left := buildBVHNode(items[:mid], sampler)
		right := buildBVHNode(items[mid:], sampler)
		node.Left, node.Right = left, right
		node.box = core.SurroundingBox(left.box, right.box)
	}
	return node
}

// Hit tests the left subtree, then the right subtree up to the closer hit
func (n *BVHNode) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	if !n.box.Hit(ray, tMin, tMax) {
		return nil, false
	}

	leftHit, hitLeft := n.Left.Hit(ray, tMin, tMax, sampler)
	closest := tMax
	if hitLeft {
		closest = leftHit.T
	}
	if rightHit, hitRight := n.Right.Hit(ray, tMin, closest, sampler); hitRight {
		return rightHit, true
	}
	return leftHit, hitLeft
}

// BoundingBox returns the cached union of the children's boxes
func (n *BVHNode) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return n.box, true
}

// Depth returns the height of the tree below and including this node
func (n *BVHNode) Depth() int {
	depth := 0
	for _, child := range []Hittable{n.Left, n.Right} {
		if node, ok := child.(*BVHNode); ok {
			depth = max(depth, node.Depth())
		}
	}
	return depth + 1
}

func (*BVHNode) isHittable() {}
