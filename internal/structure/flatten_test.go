package structure

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func explodeBike(t *testing.T) *Result {
	t.Helper()
	src := bikeSource()
	src.addOperation("WHEEL", OperationRecord{Code: "10", LaborTime: 1, MachineTime: 2, Proportion: 100, ResourceUnits: 1, TimeUnit: 1, CostCenterCode: "ASM"})
	src.addOperation("WHEEL", OperationRecord{Code: "20", LaborTime: 3, Proportion: 100, ResourceUnits: 1, TimeUnit: 1, CostCenterCode: "ASM"})

	result, err := newTestBuilder(t, src, BuilderOptions{}).Build(context.Background(), "BIKE", time.Time{})
	require.NoError(t, err)
	return result
}

func TestFlatten_PreOrderWithPaths(t *testing.T) {
	result := explodeBike(t)

	flat := Flatten(result)
	require.Len(t, flat, result.Metadata.NodeCount)

	var paths []string
	for _, f := range flat {
		paths = append(paths, f.Path)
	}
	want := []string{
		"BIKE",
		"BIKE/FRAME",
		"BIKE/FRAME/TUBE",
		"BIKE/WHEEL",
		"BIKE/WHEEL/SPOKE",
		"BIKE/WHEEL/RIM",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	assert.Nil(t, flat[0].ParentPath)
	require.NotNil(t, flat[4].ParentPath)
	assert.Equal(t, "BIKE/WHEEL", *flat[4].ParentPath)
	assert.Equal(t, 2, flat[4].Level)
}

func TestFlatten_ParentsPrecedeChildrenAndShapeRoundTrips(t *testing.T) {
	result := explodeBike(t)
	flat := Flatten(result)

	seen := make(map[string]int, len(flat))
	children := make(map[string][]string)
	for i, f := range flat {
		if f.ParentPath != nil {
			_, ok := seen[*f.ParentPath]
			require.True(t, ok, "parent of %s must come first", f.Path)
			children[*f.ParentPath] = append(children[*f.ParentPath], f.Code)
		}
		seen[f.Path] = i
	}

	walk(result.Root, nil, func(n, _ *Node) {
		var want []string
		for _, c := range n.Children {
			want = append(want, c.Code)
		}
		path := pathOf(result.Root, n)
		assert.Equal(t, want, children[path], path)
	})
}

func TestFlatten_SumsNodeHoursAndLeavesTreeUntouched(t *testing.T) {
	result := explodeBike(t)
	before := len(result.Root.Children[1].Operations)

	flat := Flatten(result)
	again := Flatten(result)

	wheel := flat[3]
	require.Equal(t, "WHEEL", wheel.Code)
	assert.InDelta(t, 2*(1+3.0), wheel.LaborHours, 1e-9)
	assert.InDelta(t, 2*2.0, wheel.MachineHours, 1e-9)
	assert.Len(t, wheel.Operations, 2)

	assert.Equal(t, before, len(result.Root.Children[1].Operations))
	assert.Equal(t, len(flat), len(again))
}

func TestFlatten_NilResult(t *testing.T) {
	assert.Nil(t, Flatten(nil))
	assert.Nil(t, Flatten(&Result{}))
}

// pathOf rebuilds the breadcrumb of target by searching from root.
func pathOf(root, target *Node) string {
	var find func(n *Node, crumbs []string) []string
	find = func(n *Node, crumbs []string) []string {
		crumbs = append(crumbs, n.Code)
		if n == target {
			return crumbs
		}
		for _, c := range n.Children {
			if found := find(c, append([]string(nil), crumbs...)); found != nil {
				return found
			}
		}
		return nil
	}
	return strings.Join(find(root, nil), PathSeparator)
}
