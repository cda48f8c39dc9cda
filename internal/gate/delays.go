package gate

import "time"

// Default stage durations applied when configuration omits them.
const (
	DefaultEntryDelay   = 1 * time.Second
	DefaultLotScanDelay = 1 * time.Second
	DefaultParkingDelay = 2 * time.Second
	DefaultExitDelay    = 1 * time.Second
)

// Delays holds the per-stage durations used to build a schedule.
type Delays struct {
	Entry   time.Duration
	LotScan time.Duration
	Parking time.Duration
	Exit    time.Duration
}

// DefaultDelays returns the built-in stage durations.
func DefaultDelays() Delays {
	return Delays{
		Entry:   DefaultEntryDelay,
		LotScan: DefaultLotScanDelay,
		Parking: DefaultParkingDelay,
		Exit:    DefaultExitDelay,
	}
}

// DelaysFromSeconds builds Delays from optional second values, using the
// defaults for nil entries.
func DelaysFromSeconds(entry, lotScan, parking, exit *float64) Delays {
	d := DefaultDelays()
	if entry != nil {
		d.Entry = seconds(*entry)
	}
	if lotScan != nil {
		d.LotScan = seconds(*lotScan)
	}
	if parking != nil {
		d.Parking = seconds(*parking)
	}
	if exit != nil {
		d.Exit = seconds(*exit)
	}
	return d
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// clamped returns a copy with negative durations replaced by zero.
func (d Delays) clamped() Delays {
	return Delays{
		Entry:   nonNegative(d.Entry),
		LotScan: nonNegative(d.LotScan),
		Parking: nonNegative(d.Parking),
		Exit:    nonNegative(d.Exit),
	}
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

// step is one scheduled transition: the stage to enter at an offset from
// the start of the run.
type step struct {
	stage  Stage
	offset time.Duration
}

// buildSchedule returns the transitions for mode. Opening and parked add no
// duration of their own relative to the previous stage.
func buildSchedule(mode Mode, delays Delays) []step {
	d := delays.clamped()
	if mode == ModeExit {
		return []step{
			{StageAtGate, 0},
			{StageMovingIn, d.Entry},
			{StageExited, d.Entry + d.LotScan + d.Exit},
		}
	}
	return []step{
		{StageAtGate, 0},
		{StageOpening, d.Entry},
		{StageMovingIn, d.Entry},
		{StageSearching, d.Entry + d.LotScan},
		{StageParked, d.Entry + d.LotScan + d.Parking},
	}
}
