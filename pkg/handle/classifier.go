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
	"github.com/rabbitstack/mutsweep/pkg/errors"
	"github.com/rabbitstack/mutsweep/pkg/sys"
	log "github.com/sirupsen/logrus"
	"strings"
	"sync"

	htypes "github.com/rabbitstack/mutsweep/pkg/handle/types"
)

// Probe is a throwaway object created only to obtain a live handle of some type.
type Probe interface {
	// Handle returns the probe's handle value in the current process.
	Handle() htypes.Value
	// Close destroys the probe object.
	Close() error
}

// Prober creates probe objects for object types.
type Prober interface {
	// NewProbe creates a uniquely named object of the given type.
	NewProbe(typeName string) (Probe, error)
}

// Classifier resolves object type names to the type indices the object manager
// assigned to them on the running system. A type index is resolved by creating a
// probe object of the type and querying its type information. Successful
// resolutions are memoized for the lifetime of the classifier and never change
// afterwards. Failed resolutions are not memoized.
type Classifier struct {
	mu      sync.Mutex
	indices map[string]TypeIndex
	prober  Prober
	querier ObjectQuerier
	alloc   Allocator
}

// NewClassifier creates a new type classifier.
func NewClassifier(prober Prober, querier ObjectQuerier, alloc Allocator) *Classifier {
	return &Classifier{
		indices: make(map[string]TypeIndex),
		prober:  prober,
		querier: querier,
		alloc:   alloc,
	}
}

// Resolve returns the type index of the given object type. Concurrent calls are
// serialized, so a type is never resolved twice once a resolution has succeeded.
func (c *Classifier) Resolve(typeName string) (TypeIndex, error) {
	key := canonicalType(typeName)
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx, ok := c.indices[key]; ok {
		return idx, nil
	}
	log.Debugf("retrieving %s type index", typeName)
	idx, err := c.resolve(typeName)
	if err != nil {
		classifierFailures.Add(1)
		return Unresolved, err
	}
	c.indices[key] = idx
	log.Infof("detected %s type index: %d", typeName, idx)
	return idx, nil
}

// Cached returns the memoized type index or Unresolved if the type wasn't resolved yet.
func (c *Classifier) Cached(typeName string) TypeIndex {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indices[canonicalType(typeName)]
}

func (c *Classifier) resolve(typeName string) (TypeIndex, error) {
	probe, err := c.prober.NewProbe(typeName)
	if err != nil {
		return Unresolved, fmt.Errorf("unable to create %s probe: %w", typeName, err)
	}
	defer func() {
		if err := probe.Close(); err != nil {
			log.Warnf("unable to close %s probe: %v", typeName, err)
		}
	}()

	// the first query only learns the size. Reporting the
	// buffer is too small is the expected outcome here
	size, err := c.querier.QueryObject(probe.Handle(), sys.ObjectTypeInformationClass, nil)
	if err != nil && !errors.IsNeedsReallocateBuffer(err) {
		return Unresolved, fmt.Errorf("unable to query %s type information size: %w", typeName, err)
	}
	if size == 0 {
		return Unresolved, fmt.Errorf("object manager reported empty %s type information", typeName)
	}

	buf, err := c.alloc.Alloc(int(size))
	if err != nil {
		return Unresolved, fmt.Errorf("unable to allocate %d bytes for %s type information: %w", size, typeName, err)
	}
	defer freeBuffer(c.alloc, buf)

	if _, err := c.querier.QueryObject(probe.Handle(), sys.ObjectTypeInformationClass, buf); err != nil {
		return Unresolved, fmt.Errorf("unable to query %s type information: %w", typeName, err)
	}
	typ, name, err := sys.DecodeObjectTypeInformation(buf)
	if err != nil {
		return Unresolved, err
	}
	if !strings.EqualFold(name, typeName) {
		return Unresolved, errors.ErrTypeMismatch{Want: typeName, Got: name}
	}
	if typ.TypeIndex == 0 {
		return Unresolved, fmt.Errorf("object manager didn't report the %s type index", typeName)
	}
	return TypeIndex(typ.TypeIndex), nil
}

var (
	defaultClassifier     *Classifier
	defaultClassifierOnce sync.Once
)

// DefaultClassifier returns the process-wide classifier. It is created on first use
// and lives for the rest of the process. Type indices it resolves are shared by every
// caller in the process.
func DefaultClassifier() *Classifier {
	defaultClassifierOnce.Do(func() {
		defaultClassifier = newPlatformClassifier()
	})
	return defaultClassifier
}

// ResolveMutantTypeIndex returns the Mutant type index through the process-wide
// classifier. Every failure is logged and degrades to Unresolved.
func ResolveMutantTypeIndex() TypeIndex {
	idx, err := DefaultClassifier().Resolve(Mutant)
	if err != nil {
		log.Errorf("couldn't determine %s type index: %v", Mutant, err)
		return Unresolved
	}
	return idx
}
