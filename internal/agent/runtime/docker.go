package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

// DockerRuntime runs payloads in language-specific containers using
// the Docker SDK.
type DockerRuntime struct {
	client *client.Client
}

// NewDockerRuntime creates a new Docker-based runtime.
func NewDockerRuntime() (*DockerRuntime, error) {
	// Initializes client from standard environment variables (DOCKER_HOST, etc.)
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}
	return &DockerRuntime{client: cli}, nil
}

// Run implements Runtime.Run using Docker containers. The payload is
// written to a temp dir bind-mounted read-only into the container.
func (d *DockerRuntime) Run(ctx context.Context, spec Spec) (*Result, error) {
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	img := Image(spec.Lang)
	if err := d.ensureImage(ctx, img); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "gridpay-job-")
	if err != nil {
		return nil, fmt.Errorf("failed to create workdir: %w", err)
	}
	defer os.RemoveAll(dir)

	filename := filepath.Base(spec.Filename)
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(spec.Code), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write payload: %w", err)
	}

	containerConfig := &container.Config{
		Image: img,
		Cmd:   []string{Interpreter(spec.Lang), "/work/" + filename},
	}
	hostConfig := &container.HostConfig{
		Binds: []string{dir + ":/work:ro"},
	}

	created, err := d.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}
	defer d.client.ContainerRemove(context.Background(), created.ID, container.RemoveOptions{Force: true})

	if err := d.client.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return nil, fmt.Errorf("failed to start container: %w", err)
	}

	statusCh, errCh := d.client.ContainerWait(ctx, created.ID, container.WaitConditionNotRunning)

	var exitCode int
	select {
	case err := <-errCh:
		return nil, fmt.Errorf("failed to wait for container: %w", err)
	case status := <-statusCh:
		exitCode = int(status.StatusCode)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	logs, err := d.client.ContainerLogs(context.Background(), created.ID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read container logs: %w", err)
	}
	defer logs.Close()

	// The log stream multiplexes stdout and stderr; demux into both.
	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, logs); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to demux container logs: %w", err)
	}

	return &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}, nil
}

func (d *DockerRuntime) ensureImage(ctx context.Context, img string) error {
	// Check if it exists locally first to save time.
	if _, err := d.client.ImageInspect(ctx, img); err == nil {
		return nil
	}

	reader, err := d.client.ImagePull(ctx, img, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", img, err)
	}
	defer reader.Close()
	io.Copy(io.Discard, reader)
	return nil
}
