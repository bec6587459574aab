package strata

import (
	"math"
	"time"

	"github.com/charmbracelet/log"
)

// AnimationType distinguishes primitive animations from composites.
type AnimationType uint8

const (
	AnimationPrimitive AnimationType = iota // timing-driven, calls Impl.Update
	AnimationSequence                       // runs children one at a time, in order
	AnimationSpawn                          // runs all children simultaneously
)

// PlayCountInfinite makes an animation loop until unscheduled.
const PlayCountInfinite uint32 = math.MaxUint32

// maxCompositeChildren caps the child list of a sequence or spawn. Additions
// beyond the cap are rejected with a warning rather than corrupting state.
const maxCompositeChildren = 64

// AnimationHandle is a generation-checked reference to an animation record.
// Handles held across frames stay safe: after the record is destroyed,
// Scheduler.Lookup fails closed instead of returning a recycled record.
// The zero handle never resolves.
type AnimationHandle struct {
	index uint32
	gen   uint32
}

// AnimationImpl is the implementation hook set of an animation.
// All fields are optional.
type AnimationImpl struct {
	// Setup runs once, the first time the animation is scheduled.
	Setup func(a *Animation)
	// Update runs every scheduler tick while scheduled, with eased
	// progress in [0, 1].
	Update func(a *Animation, progress float64)
	// Teardown runs once per scheduled run, on completion (finished=true)
	// or explicit stop (finished=false).
	Teardown func(a *Animation, finished bool)
}

// AnimationHandlers are observer callbacks, separate from the implementation.
type AnimationHandlers struct {
	// Started fires just before the first Update of a scheduled run.
	Started func(a *Animation)
	// Stopped fires when the animation leaves the scheduled list, with
	// finished=true only on natural completion.
	Stopped func(a *Animation, finished bool)
}

// Animation is a record owned by a Scheduler. Whether it is active is
// determined solely by which of the scheduler's two lists (scheduled or
// unscheduled) currently holds it; there is no separate boolean.
//
// Timing fields may be set freely while the animation is unscheduled.
type Animation struct {
	Impl     AnimationImpl
	Handlers AnimationHandlers
	Context  any

	Delay       time.Duration
	Duration    time.Duration
	Curve       Curve
	CustomCurve CurveFunc // used when Curve == CurveCustom
	PlayCount   uint32    // 0 means 1; PlayCountInfinite loops forever
	Reversed    bool      // re-read at the start of every play
	AutoDestroy bool      // destroy the record on natural completion

	sched  *Scheduler
	handle AnimationHandle
	typ    AnimationType

	absStart    time.Time
	timesPlayed uint32
	didSetup    bool
	started     bool
	launched    bool // composite children scheduled for this run

	parent    *Animation
	children  []*Animation
	seqIndex  int
	spawnDone int
	destroyed bool
}

// Type returns the animation's type tag.
func (a *Animation) Type() AnimationType {
	return a.typ
}

// Handle returns a generation-checked reference to this animation.
func (a *Animation) Handle() AnimationHandle {
	return a.handle
}

// Children returns a composite's child list (nil for primitives).
// The returned slice MUST NOT be mutated.
func (a *Animation) Children() []*Animation {
	return a.children
}

// curve resolves the animation's easing function.
func (a *Animation) curve(p float64) float64 {
	if a.Curve == CurveCustom && a.CustomCurve != nil {
		if p <= 0 {
			return 0
		}
		if p >= 1 {
			return 1
		}
		return a.CustomCurve(p)
	}
	return a.Curve.Ease(p)
}

func (a *Animation) effectivePlayCount() uint32 {
	if a.PlayCount == 0 {
		return 1
	}
	return a.PlayCount
}

type animSlot struct {
	anim *Animation
	gen  uint32
}

// Scheduler is the time-driven animation state machine. Every record it
// creates lives on exactly one of two lists: scheduled (active, advanced
// each Tick) or unscheduled (idle, awaiting Schedule or Destroy).
//
// A Scheduler belongs to one cooperative task; it does no locking.
type Scheduler struct {
	logger *log.Logger
	clock  func() time.Time

	slots []animSlot
	free  []uint32

	scheduled   []*Animation
	unscheduled []*Animation
	tickBuf     []*Animation
}

// NewScheduler creates a scheduler. logger and clock may be nil, defaulting
// to log.Default and time.Now.
func NewScheduler(logger *log.Logger, clock func() time.Time) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Scheduler{logger: logger, clock: clock}
}

// NewAnimation creates a primitive animation on the unscheduled list with
// the default curve and a play count of 1.
func (s *Scheduler) NewAnimation() *Animation {
	return s.newRecord(AnimationPrimitive)
}

// NewSequence creates a composite that runs its children one at a time in
// order. Children must be unscheduled and not already part of a composite.
func (s *Scheduler) NewSequence(children ...*Animation) *Animation {
	return s.newComposite(AnimationSequence, children)
}

// NewSpawn creates a composite that schedules all of its children
// simultaneously and completes when every child has completed.
func (s *Scheduler) NewSpawn(children ...*Animation) *Animation {
	return s.newComposite(AnimationSpawn, children)
}

func (s *Scheduler) newComposite(typ AnimationType, children []*Animation) *Animation {
	if len(children) > maxCompositeChildren {
		s.logger.Warn("composite animation child count exceeds cap, extra children rejected",
			"cap", maxCompositeChildren, "given", len(children))
		children = children[:maxCompositeChildren]
	}
	a := s.newRecord(typ)
	for _, c := range children {
		if c == nil || c.sched != s {
			panic("strata: composite child is nil or from another scheduler")
		}
		if c.parent != nil {
			panic("strata: animation is already part of a composite")
		}
		if s.isScheduled(c) {
			panic("strata: cannot compose an animation that is scheduled")
		}
		c.parent = a
		a.children = append(a.children, c)
	}
	return a
}

func (s *Scheduler) newRecord(typ AnimationType) *Animation {
	a := &Animation{sched: s, typ: typ, PlayCount: 1}
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[idx].anim = a
	} else {
		idx = uint32(len(s.slots))
		s.slots = append(s.slots, animSlot{anim: a, gen: 1})
	}
	a.handle = AnimationHandle{index: idx, gen: s.slots[idx].gen}
	s.unscheduled = append(s.unscheduled, a)
	return a
}

// Lookup resolves a handle to its animation. It fails closed: a zero,
// stale, or destroyed handle returns (nil, false).
func (s *Scheduler) Lookup(h AnimationHandle) (*Animation, bool) {
	if h.gen == 0 || int(h.index) >= len(s.slots) {
		return nil, false
	}
	slot := s.slots[h.index]
	if slot.gen != h.gen || slot.anim == nil {
		return nil, false
	}
	return slot.anim, true
}

// IsScheduled reports whether a is currently on the scheduled list.
func (s *Scheduler) IsScheduled(a *Animation) bool {
	return s.isScheduled(a)
}

func (s *Scheduler) isScheduled(a *Animation) bool {
	for _, x := range s.scheduled {
		if x == a {
			return true
		}
	}
	return false
}

func removeAnim(list []*Animation, a *Animation) []*Animation {
	for i, x := range list {
		if x == a {
			copy(list[i:], list[i+1:])
			list[len(list)-1] = nil
			return list[:len(list)-1]
		}
	}
	return list
}

// Schedule moves a from the unscheduled to the scheduled list and anchors
// its start time at the current clock reading. Scheduling an
// already-scheduled animation is a no-op.
func (s *Scheduler) Schedule(a *Animation) {
	s.scheduleAt(a, s.clock())
}

func (s *Scheduler) scheduleAt(a *Animation, now time.Time) {
	if a == nil || a.destroyed {
		return
	}
	if s.isScheduled(a) {
		return
	}
	s.unscheduled = removeAnim(s.unscheduled, a)
	s.scheduled = append(s.scheduled, a)
	a.absStart = now
	a.timesPlayed = 0
	a.started = false
	a.launched = false
	a.seqIndex = 0
	a.spawnDone = 0
	if !a.didSetup {
		a.didSetup = true
		if a.Impl.Setup != nil {
			a.Impl.Setup(a)
		}
	}
}

// Unschedule removes a from the scheduled list immediately, regardless of
// progress. Teardown and the Stopped handler fire with finished=false; the
// completion path does not run. Callers that need the deterministic end
// state use Finish (or SetElapsed with the full duration) instead.
func (s *Scheduler) Unschedule(a *Animation) {
	if a == nil || !s.isScheduled(a) {
		return
	}
	s.stop(a, false)
}

// UnscheduleAll stops every scheduled animation without completion handlers.
func (s *Scheduler) UnscheduleAll() {
	for len(s.scheduled) > 0 {
		s.stop(s.scheduled[0], false)
	}
}

// stop moves a (and, for composites, its scheduled children) off the
// scheduled list and fires teardown/stopped with the given finished flag.
// Parent notification and auto-destroy are the caller's concern.
func (s *Scheduler) stop(a *Animation, finished bool) {
	if !finished {
		for _, c := range a.children {
			if s.isScheduled(c) {
				s.stop(c, false)
			}
		}
	}
	s.scheduled = removeAnim(s.scheduled, a)
	s.unscheduled = append(s.unscheduled, a)
	if a.Impl.Teardown != nil {
		a.Impl.Teardown(a, finished)
	}
	if a.Handlers.Stopped != nil {
		a.Handlers.Stopped(a, finished)
	}
}

// complete runs the natural completion path: teardown/stopped with
// finished=true, parent notification, and auto-destroy.
func (s *Scheduler) complete(a *Animation) {
	s.stop(a, true)
	parent := a.parent
	if parent != nil {
		s.childCompleted(parent)
	}
	// A stopped handler may have rescheduled the record; only destroy a
	// record that actually came to rest. Composite children are owned and
	// destroyed by their parent.
	if a.AutoDestroy && a.parent == nil && !s.isScheduled(a) {
		s.Destroy(a)
	}
}

func (s *Scheduler) childCompleted(parent *Animation) {
	if !s.isScheduled(parent) {
		return
	}
	switch parent.typ {
	case AnimationSequence:
		parent.seqIndex++
		if parent.seqIndex < len(parent.children) {
			s.scheduleAt(parent.children[parent.seqIndex], s.clock())
		} else {
			s.complete(parent)
		}
	case AnimationSpawn:
		parent.spawnDone++
		if parent.spawnDone >= len(parent.children) {
			s.complete(parent)
		}
	}
}

// Destroy releases an animation record. A scheduled animation is stopped
// first (finished=false). Composite children are destroyed with their
// parent. Handles to the record fail closed afterwards. Idempotent.
func (s *Scheduler) Destroy(a *Animation) {
	if a == nil || a.destroyed {
		return
	}
	if s.isScheduled(a) {
		s.stop(a, false)
	}
	for _, c := range a.children {
		c.parent = nil
		s.Destroy(c)
	}
	a.children = nil
	s.unscheduled = removeAnim(s.unscheduled, a)
	s.slots[a.handle.index].anim = nil
	s.slots[a.handle.index].gen++
	s.free = append(s.free, a.handle.index)
	a.destroyed = true
	a.parent = nil
}

// SetElapsed re-anchors a's start time so that its elapsed play time equals
// elapsed. Setting the full duration makes the next tick run the normal
// completion path.
func (s *Scheduler) SetElapsed(a *Animation, elapsed time.Duration) {
	if a == nil {
		return
	}
	a.absStart = s.clock().Add(-(a.Delay + elapsed))
}

// Finish forces a scheduled animation to its end state synchronously through
// the normal completion path: the final update runs with progress 1, then
// teardown and stopped handlers fire with finished=true.
func (s *Scheduler) Finish(a *Animation) {
	if a == nil || !s.isScheduled(a) {
		return
	}
	now := s.clock()
	switch a.typ {
	case AnimationPrimitive:
		if a.PlayCount == PlayCountInfinite {
			a.PlayCount = 1
		}
		a.timesPlayed = a.effectivePlayCount() - 1
		s.SetElapsed(a, a.Duration)
		s.tickAnimation(a, s.clock())
	default:
		if !a.launched {
			s.launchChildren(a, now)
		}
		switch a.typ {
		case AnimationSequence:
			for s.isScheduled(a) && a.seqIndex < len(a.children) {
				s.Finish(a.children[a.seqIndex])
			}
		case AnimationSpawn:
			for _, c := range a.children {
				if s.isScheduled(c) {
					s.Finish(c)
				}
			}
		}
		if s.isScheduled(a) && len(a.children) == 0 {
			s.complete(a)
		}
	}
}

// Tick advances every scheduled animation to the given time. Handlers may
// schedule, unschedule, or destroy animations freely during the tick.
func (s *Scheduler) Tick(now time.Time) {
	s.tickBuf = append(s.tickBuf[:0], s.scheduled...)
	for _, a := range s.tickBuf {
		if !s.isScheduled(a) {
			continue // removed by an earlier handler this tick
		}
		s.tickAnimation(a, now)
	}
}

// HasScheduled reports whether any animation is currently scheduled.
func (s *Scheduler) HasScheduled() bool {
	return len(s.scheduled) > 0
}

func (s *Scheduler) tickAnimation(a *Animation, now time.Time) {
	switch a.typ {
	case AnimationSequence, AnimationSpawn:
		if !a.launched {
			if now.Sub(a.absStart) < a.Delay {
				return
			}
			s.launchChildren(a, now)
		}
		if len(a.children) == 0 {
			s.complete(a)
		}
		// Otherwise completion is driven by child completions.
		return
	}

	sinceStart := now.Sub(a.absStart)
	if sinceStart < a.Delay {
		return
	}
	elapsed := sinceStart - a.Delay

	var raw float64
	if a.Duration <= 0 {
		raw = 1
	} else {
		raw = clamp01(float64(elapsed) / float64(a.Duration))
	}
	if a.Reversed {
		raw = 1 - raw
	}

	if !a.started {
		a.started = true
		if a.Handlers.Started != nil {
			a.Handlers.Started(a)
		}
	}
	if a.Impl.Update != nil {
		a.Impl.Update(a, a.curve(raw))
	}

	if elapsed >= a.Duration {
		a.timesPlayed++
		pc := a.effectivePlayCount()
		if pc == PlayCountInfinite || a.timesPlayed < pc {
			// Restart the play; Reversed is re-read on the next tick.
			a.absStart = now
		} else {
			s.complete(a)
		}
	}
}

func (s *Scheduler) launchChildren(a *Animation, now time.Time) {
	a.launched = true
	switch a.typ {
	case AnimationSequence:
		a.seqIndex = 0
		if len(a.children) > 0 {
			s.scheduleAt(a.children[0], now)
		}
	case AnimationSpawn:
		a.spawnDone = 0
		for _, c := range a.children {
			s.scheduleAt(c, now)
		}
	}
}
