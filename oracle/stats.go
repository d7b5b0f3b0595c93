package oracle

// Stats counts what happened during a run.
type Stats struct {
	Iterations      uint64
	Pushes          uint64
	Pops            uint64
	Responses       uint64
	Matches         uint64
	Mismatches      uint64
	Anomalies       uint64
	UnderflowFaults uint64
	Flushes         uint64
	MaxOccupancy    int
	Cycles          uint64
}

func (s *Stats) observeOccupancy(n int) {
	if n > s.MaxOccupancy {
		s.MaxOccupancy = n
	}
}
