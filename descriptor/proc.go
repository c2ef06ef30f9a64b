package descriptor

// Proc is an owning process descriptor (pdfork(2)/pdwait4(2)/pdkill(2)).
// Unlike a bare pid, a Proc's lifetime is tied to its fd: once the
// last descriptor is closed, the kernel kills a still-running child
// unless it was forked with PdDaemon — capkit never reaps by raw pid.
type Proc struct {
	base
	pid int
}

// ForkFlag controls pdfork(2) behavior.
type ForkFlag int

const (
	// PdDaemon keeps the child process running when its process
	// descriptor is closed, instead of it being killed.
	PdDaemon ForkFlag = 0x00000001
	// PdCloexec marks the returned process descriptor close-on-exec.
	PdCloexec ForkFlag = 0x00100000
)

// Fork creates a new process descriptor for the calling process' next
// fork. The caller is responsible for dispatching child-side versus
// parent-side logic exactly as with a raw fork(2): Fork returns once
// in each process, distinguished by isChild.
func Fork(flags ForkFlag) (proc *Proc, isChild bool, err error) {
	pid, pfd, err := sysPdFork(int(flags))
	if err != nil {
		return nil, false, err
	}
	if pid == 0 {
		return nil, true, nil
	}
	return &Proc{base: newBase(pfd), pid: pid}, false, nil
}

// Pid returns the child's process ID. It remains valid after the
// process exits, but becomes meaningless (possibly reused by the
// kernel) once the Proc is closed.
func (p *Proc) Pid() int { return p.pid }

// Wait blocks until the child has exited, returning its raw wait
// status (decode with the usual WIFEXITED/WEXITSTATUS-style helpers
// the caller already has, since capkit does not duplicate libc's wait
// status macros).
func (p *Proc) Wait() (status int, err error) {
	if err := p.checkOpen("pdwait4"); err != nil {
		return 0, err
	}
	return sysPdWait4(int(p.fd))
}

// Signal sends signal to the child via pdkill(2), avoiding the pid
// reuse race inherent to kill(2).
func (p *Proc) Signal(signal int) error {
	if err := p.checkOpen("pdkill"); err != nil {
		return err
	}
	return sysPdKill(int(p.fd), signal)
}

// RefreshPid re-reads the descriptor's pid via pdgetpid(2). Proc
// already caches the pid from Fork, so this mainly exists for a Proc
// reconstructed from a descriptor received over IPC (where the
// original pid is not otherwise known to the receiver).
func (p *Proc) RefreshPid() (int, error) {
	if err := p.checkOpen("pdgetpid"); err != nil {
		return 0, err
	}
	pid, err := sysPdGetpid(int(p.fd))
	if err != nil {
		return 0, err
	}
	p.pid = pid
	return pid, nil
}

// AdoptProc wraps a raw process descriptor fd received over IPC
// into an owning Proc. The pid is unknown until RefreshPid is called.
func AdoptProc(fd int) *Proc {
	return &Proc{base: newBase(fd), pid: -1}
}
