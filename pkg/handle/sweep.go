/*
 * Copyright 2019-2020 by Nedim Sabic Sabic
 * https://www.fibratus.io
 * All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package handle

import (
	"context"
	"fmt"
	"github.com/dustin/go-humanize"
	fsm "github.com/qmuntal/stateless"
	log "github.com/sirupsen/logrus"

	htypes "github.com/rabbitstack/mutsweep/pkg/handle/types"
)

var (
	sweepIdleState      = fsm.State("idle")
	sweepResolvingState = fsm.State("resolving-type")
	sweepQueryingState  = fsm.State("querying-snapshot")
	sweepScanningState  = fsm.State("scanning")
	sweepClosingState   = fsm.State("closing")
	sweepDoneState      = fsm.State("done")

	resolveTransition = fsm.Trigger("resolve")
	queryTransition   = fsm.Trigger("query")
	growTransition    = fsm.Trigger("grow")
	scanTransition    = fsm.Trigger("scan")
	closeTransition   = fsm.Trigger("close")
	closedTransition  = fsm.Trigger("closed")
	failedTransition  = fsm.Trigger("failed")
	finishTransition  = fsm.Trigger("finish")
	abortTransition   = fsm.Trigger("abort")
)

// sweep holds the state of a single invocation of the sweeper. Entering the
// done state releases the snapshot and the closer, whatever the path that led
// there.
type sweep struct {
	*Sweeper
	fsm      *fsm.StateMachine
	snap     *Snapshot
	sum      Summary
	released bool
}

func (s *Sweeper) newSweep() *sweep {
	sw := &sweep{Sweeper: s}
	sw.fsm = fsm.NewStateMachine(sweepIdleState)
	sw.fsm.OnTransitioned(func(ctx context.Context, t fsm.Transition) {
		if t.Trigger == closeTransition || t.Trigger == closedTransition || t.Trigger == failedTransition {
			return
		}
		log.WithFields(log.Fields{"pid": s.pid, "trigger": t.Trigger}).Debugf("sweep %v -> %v", t.Source, t.Destination)
	})

	sw.fsm.
		Configure(sweepIdleState).
		Permit(resolveTransition, sweepResolvingState).
		Permit(abortTransition, sweepDoneState)
	sw.fsm.
		Configure(sweepResolvingState).
		Permit(queryTransition, sweepQueryingState).
		Permit(abortTransition, sweepDoneState)
	sw.fsm.
		Configure(sweepQueryingState).
		PermitReentry(growTransition).
		Permit(scanTransition, sweepScanningState).
		Permit(abortTransition, sweepDoneState)
	sw.fsm.
		Configure(sweepScanningState).
		Permit(closeTransition, sweepClosingState).
		Permit(finishTransition, sweepDoneState).
		Permit(abortTransition, sweepDoneState).
		OnEntry(func(_ context.Context, args ...any) error {
			if len(args) == 0 {
				return nil
			}
			if out, ok := args[0].(htypes.Outcome); ok && out.Succeeded() {
				log.WithFields(log.Fields{"handle": out.Value}).Debug("closed handle")
			}
			return nil
		})
	sw.fsm.
		Configure(sweepClosingState).
		Permit(closedTransition, sweepScanningState).
		Permit(failedTransition, sweepScanningState).
		Permit(abortTransition, sweepDoneState).
		OnEntry(func(_ context.Context, args ...any) error {
			if len(args) > 0 {
				log.Debugf("closing handle %v", args[0])
			}
			return nil
		})
	sw.fsm.
		Configure(sweepDoneState).
		OnEntry(func(_ context.Context, args ...any) error {
			sw.release()
			return nil
		})

	return sw
}

// state returns the current state of the sweep.
func (sw *sweep) state() fsm.State { return sw.fsm.MustState() }

func (sw *sweep) release() {
	if sw.released {
		return
	}
	sw.released = true
	if sw.snap != nil {
		sw.snap.Release()
	}
	if err := sw.closer.Close(); err != nil {
		log.Warn(err)
	}
}

// run drives the sweep from the idle state to the done state. An error aborts the
// sweep before any further handle is closed.
func (sw *sweep) run(typeIndex TypeIndex) (err error) {
	defer func() {
		trigger := finishTransition
		if err != nil {
			trigger = abortTransition
		}
		if ferr := sw.fsm.Fire(trigger, err); ferr != nil {
			log.Warnf("sweep couldn't reach the %v state: %v", sweepDoneState, ferr)
			sw.release()
		}
	}()

	if err = sw.fsm.Fire(resolveTransition, typeIndex); err != nil {
		return err
	}
	sw.sum.TypeIndex = typeIndex
	if typeIndex == Unresolved {
		sw.sum.Fallback = true
		sw.sum.TypeIndex, err = sw.fallbackTypeIndex()
		if err != nil {
			return err
		}
	}

	if err = sw.fsm.Fire(queryTransition); err != nil {
		return err
	}
	sw.snap, err = takeSnapshot(sw.querier, sw.alloc, sw.config.Growth, func(size int) {
		if err := sw.fsm.Fire(growTransition, size); err != nil {
			log.Warn(err)
		}
	})
	if err != nil {
		return fmt.Errorf("unable to capture handle table snapshot: %w", err)
	}
	sw.sum.Scanned = sw.snap.Len()
	sw.sum.Retries = sw.snap.Retries()
	sw.sum.BufferSize = sw.snap.Size()

	if err = sw.fsm.Fire(scanTransition); err != nil {
		return err
	}
	log.WithFields(log.Fields{"handles": sw.sum.Scanned, "size": humanize.IBytes(uint64(sw.sum.BufferSize))}).Debug("scanning handle table snapshot")

	for i := 0; i < sw.snap.Len(); i++ {
		rec := sw.snap.At(i)
		if rec.Pid != sw.pid || TypeIndex(rec.TypeIndex) != sw.sum.TypeIndex {
			continue
		}
		sw.sum.Matched++
		if err = sw.fsm.Fire(closeTransition, rec); err != nil {
			return err
		}
		out := htypes.NewOutcome(rec.Value, sw.closer.ForceClose(rec.Pid, rec.Value))
		trigger := closedTransition
		if out.Succeeded() {
			sw.sum.Closed++
		} else {
			sw.sum.Failed++
			trigger = failedTransition
			log.WithFields(log.Fields{
				"pid":        rec.Pid,
				"handle":     rec.Value,
				"type-index": rec.TypeIndex,
				"code":       out.Code,
			}).Warnf("couldn't close handle: %v", out.Err)
		}
		if err = sw.fsm.Fire(trigger, out); err != nil {
			return err
		}
		if sw.onOutcome != nil {
			sw.onOutcome(out)
		}
	}
	return nil
}
