package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"TrendWatch/internal/collector"
	"TrendWatch/internal/logger"
	"TrendWatch/internal/metrics"
	"TrendWatch/internal/model"
	"TrendWatch/internal/recorder"
	"TrendWatch/internal/scheduler"
)

var (
	ErrUnknownCoin    = errors.New("unknown coin")
	ErrUnknownPeriod  = errors.New("unknown period")
	ErrAlreadyStarted = errors.New("view model already started")
)

// State is what the render step needs: the selection, the fetch status and
// the latest snapshot.
type State struct {
	Selection model.Selection
	Status    model.Status
	Snapshot  model.AnalysisSnapshot
}

// ViewModel owns the selection, polls the analysis endpoint and publishes
// state changes to subscribers.
//
// Only the most recently issued fetch may update state. A response that
// completes after a newer fetch was issued is dropped.
type ViewModel struct {
	fetcher  collector.Fetcher
	recorder recorder.Recorder
	poller   *scheduler.Poller
	log      *zap.SugaredLogger

	mu      sync.Mutex
	state   State
	rev     uint64
	issued  uint64
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	stopped bool

	emitMu  sync.Mutex
	emitted uint64
	subs    []func(State)
}

// New creates a ViewModel polling every interval, starting from sel.
func New(fetcher collector.Fetcher, rec recorder.Recorder, interval time.Duration, sel model.Selection) *ViewModel {
	vm := &ViewModel{
		fetcher:  fetcher,
		recorder: rec,
		log:      logger.Named("viewmodel"),
		state: State{
			Selection: sel,
			Status:    model.Loading(),
			Snapshot:  model.DefaultSnapshot(),
		},
	}
	vm.poller = scheduler.NewPoller(interval, vm.tick)
	return vm
}

// Subscribe registers fn to receive every state change. fn may call State.
func (vm *ViewModel) Subscribe(fn func(State)) {
	vm.emitMu.Lock()
	defer vm.emitMu.Unlock()
	vm.subs = append(vm.subs, fn)
}

// State returns a copy of the current state.
func (vm *ViewModel) State() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// Start schedules the repeating fetch and performs the first fetch before
// returning. It may be called once.
func (vm *ViewModel) Start(ctx context.Context) error {
	vm.mu.Lock()
	if vm.started {
		vm.mu.Unlock()
		return ErrAlreadyStarted
	}
	vm.started = true
	vm.ctx, vm.cancel = context.WithCancel(ctx)
	st, rev := vm.commit()
	vm.mu.Unlock()
	vm.emit(st, rev)

	if err := vm.poller.Start(); err != nil {
		return fmt.Errorf("start poller: %w", err)
	}
	vm.log.Infow("view model started", "selection", st.Selection.String(), "fetcher", vm.fetcher.Name())
	_ = vm.Refresh(ctx)
	return nil
}

// Stop cancels the timer and any in-flight request. No fetch is issued after
// Stop returns. Safe to call more than once.
func (vm *ViewModel) Stop() {
	vm.mu.Lock()
	if vm.stopped {
		vm.mu.Unlock()
		return
	}
	vm.stopped = true
	cancel := vm.cancel
	vm.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	vm.poller.Stop()
	vm.log.Info("view model stopped")
}

// SetCoin selects a coin, resets the status to Loading and fetches at once.
// Selecting the current coin is a no-op.
func (vm *ViewModel) SetCoin(ctx context.Context, id string) error {
	coin, ok := model.ParseCoin(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCoin, id)
	}
	return vm.changeSelection(ctx, "coin", func(s *model.Selection) bool {
		if s.Coin == coin {
			return false
		}
		s.Coin = coin
		return true
	})
}

// SetPeriod selects a period, resets the status to Loading and fetches at once.
// Selecting the current period is a no-op.
func (vm *ViewModel) SetPeriod(ctx context.Context, id string) error {
	period, ok := model.ParsePeriod(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPeriod, id)
	}
	return vm.changeSelection(ctx, "period", func(s *model.Selection) bool {
		if s.Period == period {
			return false
		}
		s.Period = period
		return true
	})
}

func (vm *ViewModel) changeSelection(ctx context.Context, field string, apply func(*model.Selection) bool) error {
	vm.mu.Lock()
	if vm.stopped || !apply(&vm.state.Selection) {
		vm.mu.Unlock()
		return nil
	}
	vm.state.Status = model.Loading()
	st, rev := vm.commit()
	live := vm.started
	vm.mu.Unlock()

	metrics.SelectionChangesTotal.WithLabelValues(field).Inc()
	vm.log.Infow("selection changed", "field", field, "selection", st.Selection.String())
	vm.emit(st, rev)

	if !live {
		return nil
	}
	// The interval restarts from the change, as a fresh view would.
	vm.poller.Reset()
	_ = vm.Refresh(ctx)
	return nil
}

// Refresh fetches the current selection and applies the result. The returned
// error is the fetch failure, already reflected in State. A superseded or
// post-Stop fetch returns nil and changes nothing.
func (vm *ViewModel) Refresh(ctx context.Context) error {
	vm.mu.Lock()
	if !vm.started || vm.stopped {
		vm.mu.Unlock()
		return nil
	}
	vm.issued++
	seq := vm.issued
	sel := vm.state.Selection
	vmCtx := vm.ctx
	vm.mu.Unlock()

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer context.AfterFunc(vmCtx, cancel)()

	start := time.Now()
	snap, err := vm.fetcher.FetchAnalysis(reqCtx, sel.Coin, sel.Period)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())
	metrics.FetchTotal.WithLabelValues(resultLabel(err)).Inc()

	vm.mu.Lock()
	if seq != vm.issued || vm.stopped {
		vm.mu.Unlock()
		metrics.StaleResponsesTotal.Inc()
		vm.log.Debugw("discarding superseded response", "seq", seq, "selection", sel.String())
		return nil
	}
	if err != nil {
		vm.state.Status = model.Errored(err.Error())
	} else {
		vm.state.Snapshot = *snap
		vm.state.Status = model.Ready()
	}
	st, rev := vm.commit()
	vm.mu.Unlock()

	vm.emit(st, rev)

	if err != nil {
		vm.log.Warnw("fetch failed", "selection", sel.String(), "error", err)
		if rerr := vm.recorder.RecordFailure(&recorder.FailureEvent{Selection: sel, Message: err.Error()}); rerr != nil {
			vm.log.Errorw("record failure", "error", rerr)
		}
		return err
	}
	if rerr := vm.recorder.RecordSnapshot(sel, snap); rerr != nil {
		vm.log.Errorw("record snapshot", "error", rerr)
	}
	return nil
}

func (vm *ViewModel) tick() {
	_ = vm.Refresh(context.Background())
}

// commit bumps the revision. Caller holds mu.
func (vm *ViewModel) commit() (State, uint64) {
	vm.rev++
	metrics.Status.Set(float64(vm.state.Status.Kind))
	return vm.state, vm.rev
}

// emit delivers st unless a newer revision was already delivered.
func (vm *ViewModel) emit(st State, rev uint64) {
	vm.emitMu.Lock()
	defer vm.emitMu.Unlock()
	if rev <= vm.emitted {
		return
	}
	vm.emitted = rev
	for _, fn := range vm.subs {
		fn(st)
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, collector.ErrNetwork):
		return "network"
	case errors.Is(err, collector.ErrHTTPStatus):
		return "http_status"
	case errors.Is(err, collector.ErrParse):
		return "parse"
	case errors.Is(err, collector.ErrBackend):
		return "backend"
	default:
		return "error"
	}
}
