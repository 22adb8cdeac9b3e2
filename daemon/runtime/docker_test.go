package runtime

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(streamType byte, payload string) []byte {
	header := make([]byte, 8)
	header[0] = streamType
	binary.BigEndian.PutUint32(header[4:], uint32(len(payload)))
	return append(header, []byte(payload)...)
}

func TestDemuxLines_StripsFrameHeaders(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(frame(1, "hello\nworld\n"))
	buf.Write(frame(2, "stderr line\n"))

	lines, err := demuxLines(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "world", "stderr line"}, lines)
}

func TestDemuxLines_EmptyStreamYieldsNoLines(t *testing.T) {
	lines, err := demuxLines(&bytes.Buffer{})
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestContainerName_StripsLeadingSlash(t *testing.T) {
	assert.Equal(t, "ai-stack-nginx-1", containerName([]string{"/ai-stack-nginx-1"}))
	assert.Equal(t, "", containerName(nil))
}
