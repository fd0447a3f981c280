package metrics

// PlanPercent is achieved against target, clamped to [0, 100].
func PlanPercent(target, achieved float64) float64 {
	if !(target > 0) {
		return 0
	}
	return ClampPercent(achieved / target * 100)
}

// RFTPercent is right-first-time: passed / inspected.
func RFTPercent(passed, inspected float64) float64 {
	return Ratio(passed, inspected)
}

// DHUPercent is defects per hundred units: total defects / inspected.
// It is not clamped, a unit can carry several defects.
func DHUPercent(defects, inspected float64) float64 {
	return Ratio(defects, inspected)
}

// DefectRatePercent is defective pieces / inspected.
func DefectRatePercent(defectivePieces, inspected float64) float64 {
	return Ratio(defectivePieces, inspected)
}

// EfficiencyPercent is produced minutes (achieved * smv) over available
// minutes (manpower * minutes worked).
func EfficiencyPercent(achieved, smv, manpower, minutes float64) float64 {
	return Ratio(achieved*smv, manpower*minutes)
}

// ComputeTarget is the full-day target implied by a header:
// manpower * hours * 60 * efficiency / smv.
func ComputeTarget(manpower, workingHours, smv, planEfficiencyPercent float64) float64 {
	if !finite(smv) || smv <= 0 {
		return 0
	}
	t := manpower * workingHours * 60 * (planEfficiencyPercent / 100) / smv
	if !finite(t) || t < 0 {
		return 0
	}
	return t
}

// HourlyTarget spreads a full-day target evenly across working hours.
func HourlyTarget(target, workingHours float64) float64 {
	if !finite(target) || !finite(workingHours) || workingHours <= 0 {
		return 0
	}
	return target / workingHours
}
