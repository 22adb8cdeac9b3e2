package runtime

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"

	"github.com/steelburn/ai-stack-build/daemon/logger"
)

// DockerAdapter is the Adapter implementation backed by the official
// Docker Engine API client, grounded on the conduit-expose example's use
// of client.NewClientWithOpts(client.FromEnv, ...) against the default
// /var/run/docker.sock.
type DockerAdapter struct {
	cli       *client.Client
	available bool
}

// NewDockerAdapter dials the local Docker socket. A failed ping degrades
// the adapter to unavailable rather than returning an error, matching the
// spec's requirement that a missing runtime never crashes the process.
func NewDockerAdapter(host string) *DockerAdapter {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		logger.Yellow("docker client construction failed: %v", err)
		return &DockerAdapter{available: false}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := cli.Ping(ctx); err != nil {
		logger.Yellow("docker runtime ping failed, monitor will run in degraded mode: %v", err)
		return &DockerAdapter{cli: cli, available: false}
	}

	logger.Blue("docker runtime adapter connected")
	return &DockerAdapter{cli: cli, available: true}
}

func (d *DockerAdapter) Available() bool { return d.available }

func (d *DockerAdapter) ListContainers(ctx context.Context, nameSubstring string) ([]Container, error) {
	if !d.available {
		return nil, ErrUnavailable
	}

	all, err := d.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}

	var out []Container
	for _, c := range all {
		name := containerName(c.Names)
		if nameSubstring != "" && !strings.Contains(name, nameSubstring) {
			continue
		}
		out = append(out, Container{
			ID:      c.ID,
			Name:    name,
			Running: c.State == "running",
		})
	}
	return out, nil
}

func containerName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return strings.TrimPrefix(names[0], "/")
}

func (d *DockerAdapter) findOne(ctx context.Context, name string) (Container, error) {
	matches, err := d.ListContainers(ctx, name)
	if err != nil {
		return Container{}, err
	}
	if len(matches) == 0 {
		return Container{}, fmt.Errorf("no container matching %q", name)
	}
	return matches[0], nil
}

func (d *DockerAdapter) FetchLogs(ctx context.Context, name string, tail int) ([]string, error) {
	if !d.available {
		return nil, ErrUnavailable
	}

	ctr, err := d.findOne(ctx, name)
	if err != nil {
		return nil, err
	}

	reader, err := d.cli.ContainerLogs(ctx, ctr.ID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       fmt.Sprintf("%d", tail),
	})
	if err != nil {
		return nil, fmt.Errorf("container logs for %s: %w", name, err)
	}
	defer reader.Close()

	return demuxLines(reader)
}

// demuxLines strips the 8-byte frame header Docker's multiplexed log
// stream prefixes every chunk with: [stream_type, 0, 0, 0, size(4 bytes
// big-endian)].
func demuxLines(r io.Reader) ([]string, error) {
	var lines []string
	br := bufio.NewReader(r)
	for {
		header := make([]byte, 8)
		if _, err := io.ReadFull(br, header); err != nil {
			break
		}
		frameSize := int(header[4])<<24 | int(header[5])<<16 | int(header[6])<<8 | int(header[7])
		if frameSize <= 0 {
			continue
		}
		frame := make([]byte, frameSize)
		if _, err := io.ReadFull(br, frame); err != nil {
			break
		}
		for _, line := range strings.Split(strings.TrimRight(string(frame), "\n"), "\n") {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (d *DockerAdapter) SampleStats(ctx context.Context, name string) (RawStats, error) {
	if !d.available {
		return RawStats{}, ErrUnavailable
	}

	ctr, err := d.findOne(ctx, name)
	if err != nil {
		return RawStats{}, err
	}
	if !ctr.Running {
		return RawStats{}, fmt.Errorf("container %s is not running", name)
	}

	resp, err := d.cli.ContainerStats(ctx, ctr.ID, false)
	if err != nil {
		return RawStats{}, fmt.Errorf("container stats for %s: %w", name, err)
	}
	defer resp.Body.Close()

	var stats container.StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return RawStats{}, fmt.Errorf("decode stats for %s: %w", name, err)
	}

	var rxBytes, txBytes uint64
	for _, iface := range stats.Networks {
		rxBytes += iface.RxBytes
		txBytes += iface.TxBytes
	}

	var readBytes, writeBytes uint64
	for _, entry := range stats.BlkioStats.IoServiceBytesRecursive {
		switch strings.ToLower(entry.Op) {
		case "read":
			readBytes += entry.Value
		case "write":
			writeBytes += entry.Value
		}
	}

	return RawStats{
		CPUTotalUsage:    stats.CPUStats.CPUUsage.TotalUsage,
		PreCPUTotalUsage: stats.PreCPUStats.CPUUsage.TotalUsage,
		CPUSystemUsage:   stats.CPUStats.SystemUsage,
		PreSystemUsage:   stats.PreCPUStats.SystemUsage,
		OnlineCPUs:       uint32(stats.CPUStats.OnlineCPUs),
		PercpuCount:      len(stats.CPUStats.CPUUsage.PercpuUsage),
		MemoryUsageBytes: stats.MemoryStats.Usage,
		MemoryLimitBytes: stats.MemoryStats.Limit,
		NetworkRxBytes:   rxBytes,
		NetworkTxBytes:   txBytes,
		BlkioReadBytes:   readBytes,
		BlkioWriteBytes:  writeBytes,
	}, nil
}

func (d *DockerAdapter) SendSignal(ctx context.Context, name, signal string) error {
	if !d.available {
		return ErrUnavailable
	}
	ctr, err := d.findOne(ctx, name)
	if err != nil {
		return err
	}
	if err := d.cli.ContainerKill(ctx, ctr.ID, signal); err != nil {
		return fmt.Errorf("send signal %s to %s: %w", signal, name, err)
	}
	return nil
}

func (d *DockerAdapter) Restart(ctx context.Context, name string, timeout time.Duration) error {
	if !d.available {
		return ErrUnavailable
	}
	ctr, err := d.findOne(ctx, name)
	if err != nil {
		return err
	}
	seconds := int(timeout.Seconds())
	if err := d.cli.ContainerRestart(ctx, ctr.ID, container.StopOptions{Timeout: &seconds}); err != nil {
		return fmt.Errorf("restart %s: %w", name, err)
	}
	return nil
}

func (d *DockerAdapter) Exec(ctx context.Context, name string, argv []string) (string, error) {
	if !d.available {
		return "", ErrUnavailable
	}
	ctr, err := d.findOne(ctx, name)
	if err != nil {
		return "", err
	}

	execID, err := d.cli.ContainerExecCreate(ctx, ctr.ID, container.ExecOptions{
		Cmd:          argv,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return "", fmt.Errorf("exec create in %s: %w", name, err)
	}

	attach, err := d.cli.ContainerExecAttach(ctx, execID.ID, container.ExecAttachOptions{})
	if err != nil {
		return "", fmt.Errorf("exec attach in %s: %w", name, err)
	}
	defer attach.Close()

	lines, err := demuxLines(attach.Reader)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}
