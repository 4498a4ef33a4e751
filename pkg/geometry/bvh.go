package geometry

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// bvhNode is either a leaf holding exactly one primitive or an internal node
// caching the bounding box of each child alongside their union.
type bvhNode[T Primitive] struct {
	bbox core.AABB

	// Leaf
	primitive T
	leaf      bool

	// Internal
	left, right       *bvhNode[T]
	leftBox, rightBox core.AABB
}

// BVH is an immutable bounding volume hierarchy over primitives.
// Each split uses a uniformly random axis and divides the primitives by
// count at the median, which bounds the depth at O(log N).
type BVH[T Primitive] struct {
	root  *bvhNode[T]
	count int
}

// NewBVH builds a BVH over the given primitives. The random source chooses
// split axes; nil seeds one from the clock. The input slice is not modified.
func NewBVH[T Primitive](primitives []T, random *rand.Rand) *BVH[T] {
	if len(primitives) == 0 {
		return &BVH[T]{}
	}
	if random == nil {
		random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	// Copy so concurrent builders sharing a slice never race on the sort
	items := make([]T, len(primitives))
	copy(items, primitives)

	return &BVH[T]{
		root:  buildBVH(items, random),
		count: len(items),
	}
}

func newLeaf[T Primitive](primitive T) *bvhNode[T] {
	return &bvhNode[T]{bbox: primitive.BoundingBox(), primitive: primitive, leaf: true}
}

func newInternal[T Primitive](left, right *bvhNode[T]) *bvhNode[T] {
	return &bvhNode[T]{
		bbox:     left.bbox.Union(right.bbox),
		left:     left,
		right:    right,
		leftBox:  left.bbox,
		rightBox: right.bbox,
	}
}

func buildBVH[T Primitive](items []T, random *rand.Rand) *bvhNode[T] {
	switch len(items) {
	case 1:
		return newLeaf(items[0])
	case 2:
		return newInternal(newLeaf(items[0]), newLeaf(items[1]))
	}

	axis := core.RandomAxis(random)
	sortByAxisMin(items, axis)

	mid := len(items) / 2
	return newInternal(buildBVH(items[:mid], random), buildBVH(items[mid:], random))
}

// sortByAxisMin orders primitives by the minimum of their bounding box along axis.
// A NaN coordinate means a primitive was built from invalid input.
func sortByAxisMin[T Primitive](items []T, axis core.Axis) {
	keys := make([]float64, len(items))
	for i, item := range items {
		keys[i] = item.BoundingBox().Axis(axis).Min
		if math.IsNaN(keys[i]) {
			panic(fmt.Sprintf("bounding box has NaN minimum on axis %v", axis))
		}
	}

	sort.Stable(byKey[T]{items: items, keys: keys})
}

type byKey[T Primitive] struct {
	items []T
	keys  []float64
}

func (b byKey[T]) Len() int           { return len(b.items) }
func (b byKey[T]) Less(i, j int) bool { return b.keys[i] < b.keys[j] }
func (b byKey[T]) Swap(i, j int) {
	b.items[i], b.items[j] = b.items[j], b.items[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}

// Hit returns the nearest intersection within the interval
func (bvh *BVH[T]) Hit(ray core.Ray, interval core.Interval) (*core.Intersection, bool) {
	if bvh.root == nil {
		return nil, false
	}
	hit := bvh.root.hit(ray, interval)
	return hit, hit != nil
}

func (node *bvhNode[T]) hit(ray core.Ray, interval core.Interval) *core.Intersection {
	if node.leaf {
		if !node.bbox.Hit(ray, interval) {
			return nil
		}
		hit, ok := node.primitive.Hit(ray, interval)
		if !ok {
			return nil
		}
		return hit
	}

	// Both children are tested against the same interval. The interval is not
	// narrowed by a left hit because transformed children recompute distances.
	var leftHit, rightHit *core.Intersection
	if node.leftBox.Hit(ray, interval) {
		leftHit = node.left.hit(ray, interval)
	}
	if node.rightBox.Hit(ray, interval) {
		rightHit = node.right.hit(ray, interval)
	}
	return core.Closer(leftHit, rightHit)
}

// BoundingBox returns the box enclosing every primitive, or the zero box when empty
func (bvh *BVH[T]) BoundingBox() core.AABB {
	if bvh.root == nil {
		return core.AABB{}
	}
	return bvh.root.bbox
}

// Len returns the number of primitives in the hierarchy
func (bvh *BVH[T]) Len() int {
	return bvh.count
}

// BVHStats summarizes the shape of a hierarchy
type BVHStats struct {
	Leaves        int
	InternalNodes int
	MaxDepth      int
}

// Stats walks the tree and reports its shape
func (bvh *BVH[T]) Stats() BVHStats {
	var stats BVHStats
	if bvh.root != nil {
		bvh.root.collectStats(1, &stats)
	}
	return stats
}

func (node *bvhNode[T]) collectStats(depth int, stats *BVHStats) {
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}
	if node.leaf {
		stats.Leaves++
		return
	}
	stats.InternalNodes++
	node.left.collectStats(depth+1, stats)
	node.right.collectStats(depth+1, stats)
}
