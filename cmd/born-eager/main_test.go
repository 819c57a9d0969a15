package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/eager/internal/eager"
	"github.com/born-ml/eager/internal/handle"
	"github.com/born-ml/eager/internal/status"
	"github.com/born-ml/eager/internal/tensor"
)

var (
	localCPU  = tensor.LocalCPU()
	localGPU  = tensor.MustParseDeviceName("/job:localhost/replica:0/task:0/device:CUDA:0")
	workerCPU = tensor.MustParseDeviceName("/job:worker/replica:0/task:1/device:CPU:0")
	workerGPU = tensor.MustParseDeviceName("/job:worker/replica:0/task:1/device:CUDA:0")
)

func testCluster(policy eager.MirroringPolicy, remotes ...tensor.DeviceName) *cluster {
	s := clusterSettings{LocalDevice: localCPU, RemoteDevices: remotes, Mirroring: policy}
	return newCluster(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSettingsFromConfig(t *testing.T) {
	v := viper.New()
	v.Set(cfgKeyLocalDevice, localCPU.String())
	v.Set(cfgKeyRemoteDevices, []string{workerCPU.String(), localGPU.String()})
	v.Set(cfgKeyMirroring, "all")

	s, err := settingsFromConfig(v)
	require.NoError(t, err)
	assert.Equal(t, localCPU, s.LocalDevice)
	assert.Equal(t, []tensor.DeviceName{workerCPU, localGPU}, s.RemoteDevices)
	assert.Equal(t, eager.MirroringAll, s.Mirroring)
}

func TestSettingsFromConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"bad local device", cfgKeyLocalDevice, "cpu0"},
		{"bad remote device", cfgKeyRemoteDevices, []string{"/job:worker"}},
		{"remote is local", cfgKeyRemoteDevices, []string{localCPU.String()}},
		{"bad mirroring", cfgKeyMirroring, "some"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.SetDefault(cfgKeyLocalDevice, localCPU.String())
			v.Set(tt.key, tt.val)
			_, err := settingsFromConfig(v)
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("BORN_LOCAL_DEVICE", "")
	dir := t.TempDir()
	yaml := "mirroring: all\nremote-devices:\n  - /job:ps/replica:0/task:0/device:CPU:0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	v, err := loadConfig(rootCmd, dir)
	require.NoError(t, err)
	s, err := settingsFromConfig(v)
	require.NoError(t, err)
	assert.Equal(t, eager.MirroringAll, s.Mirroring)
	require.Len(t, s.RemoteDevices, 1)
	assert.Equal(t, "ps", s.RemoteDevices[0].Job)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("BORN_LOCAL_DEVICE", "")
	t.Setenv("BORN_MIRROR_TENSORS", "")

	v, err := loadConfig(rootCmd, t.TempDir())
	require.NoError(t, err)
	s, err := settingsFromConfig(v)
	require.NoError(t, err)
	assert.Equal(t, localCPU, s.LocalDevice)
	assert.Equal(t, eager.MirroringNone, s.Mirroring)
	assert.Len(t, s.RemoteDevices, len(defaultRemoteDevices))
}

func TestPopulate(t *testing.T) {
	c := testCluster(eager.MirroringNone, workerCPU, localGPU)
	work, err := c.populate()
	require.NoError(t, err)
	defer work.Release()

	require.Len(t, work.Handles, 4)
	names := make([]string, len(work.Handles))
	for i, nh := range work.Handles {
		names[i] = nh.Name
	}
	assert.Equal(t, []string{"local", "CPU:0", "CUDA:0", "pending"}, names)

	remote := handle.HandleFromInterface(work.Handles[1].Handle)
	assert.Equal(t, eager.Remote, remote.Kind())
	assert.Equal(t, tensor.Float16, remote.DataType())

	gpu := handle.HandleFromInterface(work.Handles[2].Handle)
	assert.Equal(t, eager.Local, gpu.Kind())
	backing, err := gpu.BackingDeviceName()
	require.NoError(t, err)
	assert.Equal(t, localGPU.String(), backing)

	_, err = work.Handles[3].Handle.NumDims()
	assert.Equal(t, status.Unavailable, status.CodeOf(err))

	assert.Equal(t, int64(4), c.ctx.LiveHandles())
	work.Release()
	assert.Equal(t, int64(0), c.ctx.LiveHandles())
}

func TestRunDevices(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runDevices(&buf, testCluster(eager.MirroringNone, workerCPU, localGPU)))

	out := buf.String()
	assert.Regexp(t, regexp.MustCompile(regexp.QuoteMeta(localCPU.String())+`\s+local\s*\n`), out)
	assert.Regexp(t, regexp.MustCompile(regexp.QuoteMeta(localGPU.String())+`\s+local task\s*\n`), out)
	assert.Regexp(t, regexp.MustCompile(regexp.QuoteMeta(workerCPU.String())+`\s+remote\s*\n`), out)
}

func TestRunInspect(t *testing.T) {
	c := testCluster(eager.MirroringNone, workerCPU)
	var buf bytes.Buffer
	require.NoError(t, runInspect(&buf, c))

	out := buf.String()
	assert.Contains(t, out, "STATUS")
	assert.Regexp(t, `local\s+local\s+float32\s+\[2 3\]\s+6\s`, out)
	assert.Regexp(t, `CPU:0\s+remote\s+float16\s+\[2 2\]\s+4\s`, out)
	assert.Regexp(t, `pending\s+pending\s+float32\s+\?\s+\?\s`, out)
	assert.Contains(t, out, "UNAVAILABLE")
	assert.Equal(t, int64(0), c.ctx.LiveHandles())
}

func TestRunResolveTransfers(t *testing.T) {
	tests := []struct {
		policy    eager.MirroringPolicy
		transfers int64
	}{
		// Two remote handles fetched on each of three rounds.
		{eager.MirroringNone, 6},
		// Fetched once, then served from the mirrors.
		{eager.MirroringAll, 2},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			c := testCluster(tt.policy, workerCPU, workerGPU)
			var buf bytes.Buffer
			require.NoError(t, runResolve(context.Background(), &buf, c, 3, time.Millisecond))

			assert.Equal(t, tt.transfers, c.fetches.Load())
			assert.Contains(t, buf.String(), "mirroring="+tt.policy.String())
			assert.Regexp(t, `pending\s+float32\s+\S+\s+\[42\]`, buf.String())
			assert.Regexp(t, `CPU:0\s+float16\s+\S+\s+\[10 11 12 13\]`, buf.String())
			assert.Equal(t, int64(0), c.ctx.LiveHandles())
		})
	}
}

func TestLostWorker(t *testing.T) {
	c := testCluster(eager.MirroringNone, workerCPU)
	work, err := c.populate()
	require.NoError(t, err)
	defer work.Release()
	require.NoError(t, c.completePending(work.Producer))

	c.loopback.Drop(workerCPU)

	handles := make([]handle.TensorHandle, len(work.Handles))
	for i, nh := range work.Handles {
		handles[i] = nh.Handle
	}
	ts, err := handle.ResolveAll(context.Background(), handles)
	require.Error(t, err)
	assert.Nil(t, ts)
	assert.Equal(t, status.Unavailable, status.CodeOf(err))
	assert.Contains(t, err.Error(), workerCPU.String())
}

func TestRunResolveRepeat(t *testing.T) {
	err := runResolve(context.Background(), io.Discard, testCluster(eager.MirroringNone), 0, 0)
	assert.ErrorContains(t, err, "--repeat")
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "born-eager "+version+"\n", buf.String())
}

func TestRunEnv(t *testing.T) {
	t.Setenv("BORN_MIRROR_TENSORS", "1")

	var buf bytes.Buffer
	require.NoError(t, runEnv(&buf))
	assert.Regexp(t, `BORN_MIRROR_TENSORS\s+true\s`, buf.String())
	assert.Contains(t, buf.String(), "BORN_CONFIG_DIR")
}
