package stope

import "github.com/ChicagoDave/stopeplanner/pkg/design"

// SelectType picks the stoping method from dip, RQD and depth.
// Rules are evaluated top to bottom and the first match wins:
//
//	dip > 60, RQD > 80, depth < 800  Vertical Crater Retreat
//	dip > 45, RQD > 75               Sublevel Stoping
//	30 < dip <= 45, RQD > 60         Cut-and-Fill
//	dip <= 30, RQD > 50              Room-and-Pillar
//	otherwise                        Shrinkage Stoping
func SelectType(in *design.Input) Type {
	dip, rqd, depth := in.DipAngle, in.RQD, in.MiningDepth

	switch {
	case dip > 60 && rqd > 80 && depth < 800:
		return VerticalCraterRetreat
	case dip > 45 && rqd > 75:
		return SublevelStoping
	case dip > 30 && dip <= 45 && rqd > 60:
		return CutAndFill
	case dip <= 30 && rqd > 50:
		return RoomAndPillar
	default:
		return ShrinkageStoping
	}
}
