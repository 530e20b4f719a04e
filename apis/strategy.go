/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

// Strategy is a pluggable resolution step. A Resolver chains strategies in
// order; the first one that handles the request wins.
type Strategy interface {
	// TryResolve attempts to resolve req against the table snapshot.
	// It returns (path, true, nil) if handled, ("", false, nil) to fall
	// through and a non-nil error to stop the chain.
	TryResolve(req Request, snap Snapshot) (path string, handled bool, err error)
}
