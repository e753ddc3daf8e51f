package hours

// Unit is the source system's time unit code for operation durations.
type Unit int

const (
	Hours   Unit = 1
	Minutes Unit = 2
	Seconds Unit = 3
	Days    Unit = 4
)

// ToHours converts value expressed in unit into hours.
// Unknown unit codes are treated as hours.
func ToHours(value float64, unit Unit) float64 {
	switch unit {
	case Minutes:
		return value / 60.0
	case Seconds:
		return value / 3600.0
	case Days:
		return value * 24.0
	default:
		return value
	}
}

// Input represents operation-level figures used to compute the hours a node consumes.
type Input struct {
	Quantity      float64
	LaborTime     float64
	MachineTime   float64
	Proportion    float64
	ResourceUnits int
	Unit          Unit
}

// Result contains the computed labor and machine hours for one operation.
type Result struct {
	LaborHours   float64
	MachineHours float64
}

// Total returns labor plus machine hours.
func (r Result) Total() float64 {
	return r.LaborHours + r.MachineHours
}

// Calculate computes labor and machine hours for an operation performed for
// Quantity units of its owning item. ResourceUnits below 1 count as 1.
func Calculate(in Input) Result {
	resources := float64(in.ResourceUnits)
	if in.ResourceUnits < 1 {
		resources = 1
	}
	factor := ToHours(1, in.Unit)
	divisor := 100.0 * resources

	return Result{
		LaborHours:   in.Quantity * (in.LaborTime * in.Proportion) / divisor * factor,
		MachineHours: in.Quantity * (in.MachineTime * in.Proportion) / divisor * factor,
	}
}
