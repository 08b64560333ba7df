package docker

import "fmt"

// ErrNotFound indicates that a named container does not exist on the daemon.
type ErrNotFound string

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("container %s not found", string(e))
}
