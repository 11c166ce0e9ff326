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
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/rabbitstack/mutsweep/pkg/errors"
	log "github.com/sirupsen/logrus"
	"os"

	htypes "github.com/rabbitstack/mutsweep/pkg/handle/types"
)

// Summary describes the outcome of a single sweep.
type Summary struct {
	// TypeIndex is the type index the handles were matched against.
	TypeIndex TypeIndex
	// Fallback is true if TypeIndex wasn't resolved through the classifier.
	Fallback bool
	// Scanned is the number of handles in the snapshot.
	Scanned int
	// Matched is the number of handles owned by the process with the matching type.
	Matched int
	// Closed is the number of handles successfully closed.
	Closed int
	// Failed is the number of handles that couldn't be closed.
	Failed int
	// Retries is how many times the snapshot buffer was grown.
	Retries int
	// BufferSize is the size in bytes of the snapshot buffer.
	BufferSize int
}

// String returns the human-readable summary.
func (s Summary) String() string {
	return fmt.Sprintf("type index: %d (fallback: %t), scanned: %d, matched: %d, closed: %d, failed: %d, snapshot: %s after %d retries",
		s.TypeIndex, s.Fallback, s.Scanned, s.Matched, s.Closed, s.Failed, humanize.IBytes(uint64(s.BufferSize)), s.Retries)
}

// OutcomeFunc is invoked for every matched handle once the close attempt completes.
type OutcomeFunc func(htypes.Outcome)

// Option customizes the sweeper.
type Option func(s *Sweeper)

// WithPid sets the process whose handles are swept. Defaults to the current process.
func WithPid(pid uint32) Option {
	return func(s *Sweeper) { s.pid = pid }
}

// WithClassifier sets the classifier used to resolve the type index.
func WithClassifier(c *Classifier) Option {
	return func(s *Sweeper) { s.classifier = c }
}

// WithTypeStore sets the object type store consulted when the classifier fails.
func WithTypeStore(ts *TypeStore) Option {
	return func(s *Sweeper) { s.types = ts }
}

// WithTableQuerier sets the querier for capturing the handle table.
func WithTableQuerier(q TableQuerier) Option {
	return func(s *Sweeper) { s.querier = q }
}

// WithCloser sets the closer for matched handles.
func WithCloser(c Closer) Option {
	return func(s *Sweeper) { s.closer = c }
}

// WithAllocator sets the allocator for handle table buffers.
func WithAllocator(a Allocator) Option {
	return func(s *Sweeper) { s.alloc = a }
}

// WithOutcomeCallback registers the function that receives per-handle outcomes.
func WithOutcomeCallback(fn OutcomeFunc) Option {
	return func(s *Sweeper) { s.onOutcome = fn }
}

// Sweeper force-closes every handle of a given object type held by a process.
// Sweeps run synchronously on the caller's goroutine.
type Sweeper struct {
	config     Config
	pid        uint32
	classifier *Classifier
	types      *TypeStore
	querier    TableQuerier
	closer     Closer
	alloc      Allocator
	onOutcome  OutcomeFunc
}

// NewSweeper creates a sweeper with the given configuration. Components that are not
// supplied through options are backed by the native implementations.
func NewSweeper(config Config, options ...Option) (*Sweeper, error) {
	s := &Sweeper{config: config}
	for _, opt := range options {
		opt(s)
	}
	if s.pid == 0 {
		s.pid = uint32(os.Getpid())
	}
	if s.config.TypeName == "" {
		s.config.TypeName = Mutant
	}
	if s.alloc == nil {
		alloc, err := NewAllocator(s.config.Allocator)
		if err != nil {
			return nil, err
		}
		s.alloc = alloc
	}
	if s.classifier == nil {
		s.classifier = DefaultClassifier()
	}
	platformDefaults(s)
	return s, nil
}

// Sweep resolves the type index of the configured object type and closes every
// handle of that type held by the process.
func (s *Sweeper) Sweep() (Summary, error) {
	log.Debugf("resolving %s type index", s.config.TypeName)
	idx, err := s.classifier.Resolve(s.config.TypeName)
	if err != nil {
		log.Warnf("couldn't determine %s type index: %v", s.config.TypeName, err)
	}
	return s.CloseAllMatchingHandlesInCurrentProcess(idx)
}

// CloseAllMatchingHandlesInCurrentProcess closes every handle held by the process
// whose object type index equals typeIndex. An unresolved type index is replaced
// by the index from the object type store or, for mutants only, the configured
// fallback index. Other object types without a resolvable index abort the sweep
// with ErrUnresolvedType. Handles that fail to close are logged and counted while
// the sweep continues. An error is returned only if the sweep was aborted, in which
// case no handle is closed.
func (s *Sweeper) CloseAllMatchingHandlesInCurrentProcess(typeIndex TypeIndex) (Summary, error) {
	sweepCount.Add(1)
	sw := s.newSweep()
	if err := sw.run(typeIndex); err != nil {
		return sw.sum, err
	}
	sweepClosed.Add(int64(sw.sum.Closed))
	sweepFailures.Add(int64(sw.sum.Failed))
	log.Infof("swept %s handles: %s", s.config.TypeName, sw.sum)
	return sw.sum, nil
}

func (s *Sweeper) fallbackTypeIndex() (TypeIndex, error) {
	if s.types != nil {
		if idx := s.types.FindByName(s.config.TypeName); idx != Unresolved {
			log.Warnf("using %s type index %d from the object type table", s.config.TypeName, idx)
			return idx, nil
		}
	}
	if canonicalType(s.config.TypeName) != canonicalType(Mutant) {
		return Unresolved, fmt.Errorf("%w: no fallback index for %s objects", errors.ErrUnresolvedType, s.config.TypeName)
	}
	idx := s.config.FallbackTypeIndex
	if idx == Unresolved {
		idx = FallbackMutantTypeIndex
	}
	log.Warnf("using fallback %s type index %d", s.config.TypeName, idx)
	return idx, nil
}
