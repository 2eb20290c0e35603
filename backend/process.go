// Package backend locates and invokes the external converter that turns
// the corrected SVG into the final embeddable document pair.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/flanksource/commons/logger"
)

// Process is a single external command invocation with captured output.
// The zero value is not usable; construct with Command.
type Process struct {
	Cmd     string
	Args    []string
	Env     map[string]string
	Cwd     string
	Err     error
	Log     logger.Logger
	Stdout  bytes.Buffer
	Stderr  bytes.Buffer
	Started *time.Time
}

func Command(name string, args ...string) *Process {
	return &Process{
		Cmd:  name,
		Args: args,
		Log:  logger.GetLogger("backend"),
	}
}

func (p *Process) WithCwd(cwd string) *Process {
	p.Cwd = cwd
	return p
}

func (p *Process) WithEnv(env map[string]string) *Process {
	p.Env = env
	return p
}

func (p *Process) WithLogger(log logger.Logger) *Process {
	p.Log = log
	return p
}

// Out returns the combined captured output, stderr first: the converter
// reports problems there and its stdout is usually empty.
func (p *Process) Out() string {
	return p.Stderr.String() + p.Stdout.String()
}

func (p *Process) String() string {
	return p.Cmd + " " + strings.Join(p.Args, " ")
}

// Run executes the command synchronously, capturing stdout and stderr.
// Cancellation of ctx kills the process; callers needing timeouts wrap the
// context themselves.
func (p *Process) Run(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, p.Cmd, p.Args...)
	cmd.Dir = p.Cwd
	cmd.Stdout = &p.Stdout
	cmd.Stderr = &p.Stderr
	for k, v := range p.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	now := time.Now()
	p.Started = &now
	p.Log.Debugf("running %s", p)
	p.Err = cmd.Run()
	if p.Err != nil {
		p.Log.Debugf("%s failed: %v", p.Cmd, p.Err)
	}
	return p.Err
}

// IsOK reports a clean exit.
func (p *Process) IsOK() bool {
	return p.Err == nil
}
