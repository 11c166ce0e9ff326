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

import "expvar"

var (
	sweepCount            = expvar.NewInt("handle.sweep.count")
	sweepClosed           = expvar.NewInt("handle.sweep.closed")
	sweepFailures         = expvar.NewInt("handle.sweep.failures")
	snapshotRetries       = expvar.NewInt("handle.snapshot.retries")
	snapshotBytes         = expvar.NewInt("handle.snapshot.bytes")
	classifierFailures    = expvar.NewInt("handle.classifier.failures")
	bufferReleaseFailures = expvar.NewInt("handle.buffer.release.failures")
)
