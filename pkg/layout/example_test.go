package layout_test

import (
	"fmt"

	"github.com/wemcdonald/boxr/pkg/config"
	"github.com/wemcdonald/boxr/pkg/layout"
	"github.com/wemcdonald/boxr/pkg/tool"
)

func ExampleCompute() {
	tools := []tool.Tool{
		{Label: "PH1", Row: 0, Col: 0, HandleDiameter: 20, ShaftDiameter: 6, Active: true},
		{Label: "PH2", Row: 0, Col: 1, HandleDiameter: 24, ShaftDiameter: 7, Active: true},
		{Label: "T10", Row: 1, Col: 0, HandleDiameter: 18, ShaftDiameter: 4, Active: true},
	}

	l := layout.Compute(tools, config.Default())

	fmt.Printf("grid: %d x %d\n", l.MaxRow+1, l.MaxCol+1)
	fmt.Printf("part: %.1f x %.1f mm\n", l.PartWidth, l.PartDepth)
	c := l.Centers[layout.GridPos{Row: 0, Col: 0}]
	fmt.Printf("PH1 center: (%.1f, %.1f)\n", c.X, c.Y)
	// Output:
	// grid: 2 x 2
	// part: 76.0 x 89.0 mm
	// PH1 center: (23.0, 25.0)
}
