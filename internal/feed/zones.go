package feed

import (
	"math"

	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/storage"
	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/tracker"
)

// ZoneContains reports whether the X/Z point lies inside the zone. Circles
// use Euclidean distance, rectangles an axis-aligned bounding check. Height
// (Y) never participates.
func ZoneContains(z *storage.Zone, x, zc float64) bool {
	switch z.Shape {
	case storage.ZoneShapeCircle:
		dx := x - z.X
		dz := zc - z.Z
		return math.Sqrt(dx*dx+dz*dz) <= z.Radius
	case storage.ZoneShapeRectangle:
		return x >= z.MinX && x <= z.MaxX && zc >= z.MinZ && zc <= z.MaxZ
	default:
		return false
	}
}

// InAnyZone reports whether the position is inside at least one zone of the
// given kind.
func InAnyZone(zones []*storage.Zone, kind string, pos tracker.Position) bool {
	for _, z := range zones {
		if z.Kind != kind {
			continue
		}
		if ZoneContains(z, pos.X, pos.Z) {
			return true
		}
	}
	return false
}
