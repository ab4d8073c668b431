//go:build !windows

// File: transport/connection_unix.go
// Author: momentics <momentics@gmail.com>

package transport

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// tuneSocketBuffers sets the OS send/receive socket buffer sizes on conn's
// underlying file descriptor, mirroring the teacher's platform-specific
// pool tuning split (pool/bufferpool_linux.go vs _windows.go) applied here
// to raw socket buffers instead of userspace memory pools.
func tuneSocketBuffers(conn syscall.Conn, sendBuf, recvBuf int) error {
	if sendBuf <= 0 && recvBuf <= 0 {
		return nil
	}
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}
	var sockErr error
	ctrlErr := raw.Control(func(fd uintptr) {
		if sendBuf > 0 {
			if e := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, sendBuf); e != nil {
				sockErr = e
				return
			}
		}
		if recvBuf > 0 {
			if e := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, recvBuf); e != nil {
				sockErr = e
			}
		}
	})
	if ctrlErr != nil {
		return ctrlErr
	}
	return sockErr
}
