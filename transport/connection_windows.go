//go:build windows

// File: transport/connection_windows.go
// Author: momentics <momentics@gmail.com>

package transport

import "syscall"

// tuneSocketBuffers is a no-op on Windows: the module avoids raw syscall
// socket tuning there and relies on net.Dial's own defaults.
func tuneSocketBuffers(conn syscall.Conn, sendBuf, recvBuf int) error {
	return nil
}
