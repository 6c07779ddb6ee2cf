package commands

import (
	"fmt"

	"github.com/insurancevn/insurancenews/internal/version"
)

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (VersionCmd) Run(*Global) error {
	fmt.Println(version.String())
	return nil
}
