// Package sandbox implements the process-wide capability-mode
// transition: Enter (cap_enter(2)) and IsActive (cap_getmode(2)).
//
// Capsicum's capability mode is a property of the whole process, not
// of any one value, so unlike the rest of capkit this package exposes
// free functions rather than a handle type — there is nothing to own.
package sandbox

// Enter puts the calling process into capability mode. The transition
// is irreversible for the lifetime of the process: once Enter returns
// nil, every subsequent global-namespace syscall (open by absolute
// path, socket bind to an arbitrary address, and so on) fails with
// ferr.CapabilityMode, and only descriptors already held (or obtained
// via an *At call relative to one of them) remain usable.
//
// A second call to Enter while already in capability mode is a
// kernel-level no-op success, so callers may call it defensively
// without tracking whether a prior call already succeeded.
func Enter() error {
	return sysCapEnter()
}

// IsActive reports whether the calling process is currently in
// capability mode. On a platform with no Capsicum support it always
// returns false rather than ferr.NotSupported, since "not sandboxed"
// is simply the correct answer there.
func IsActive() (bool, error) {
	return sysCapGetMode()
}
