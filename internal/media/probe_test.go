// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package media_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/media"
)

// box serializes a single ISO-BMFF box.
func box(boxType string, payload []byte) []byte {
	out := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint32(out[0:4], uint32(8+len(payload)))
	copy(out[4:8], boxType)
	copy(out[8:], payload)
	return out
}

// mvhdV0 builds a version-0 movie header with the given timescale and duration.
func mvhdV0(timescale uint32, duration uint32) []byte {
	payload := make([]byte, 32)
	// version 0, flags 0, creation and modification times zeroed.
	binary.BigEndian.PutUint32(payload[12:16], timescale)
	binary.BigEndian.PutUint32(payload[16:20], duration)
	return box("mvhd", payload)
}

// mvhdV1 builds a version-1 movie header with 64-bit times and duration.
func mvhdV1(timescale uint32, duration uint64) []byte {
	payload := make([]byte, 32)
	payload[0] = 1
	binary.BigEndian.PutUint32(payload[20:24], timescale)
	binary.BigEndian.PutUint64(payload[24:32], duration)
	return box("mvhd", payload)
}

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "probe.mp4")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

/*
TestMP4Duration_Version0 verifies duration extraction from a version-0
movie header.
*/
func TestMP4Duration_Version0(t *testing.T) {
	file := append(box("ftyp", []byte("isom\x00\x00\x00\x00")), box("moov", mvhdV0(1000, 30500))...)
	path := writeTempFile(t, file)

	duration, err := media.MP4Duration(path)
	require.NoError(t, err)
	assert.InDelta(t, 30.5, duration, 0.001)
}

/*
TestMP4Duration_Version1 verifies duration extraction from a version-1
movie header with 64-bit fields.
*/
func TestMP4Duration_Version1(t *testing.T) {
	file := append(box("ftyp", []byte("isom\x00\x00\x00\x00")), box("moov", mvhdV1(600, 7200))...)
	path := writeTempFile(t, file)

	duration, err := media.MP4Duration(path)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, duration, 0.001)
}

/*
TestMP4Duration_SkipsLeadingBoxes verifies the walk over top-level boxes
before moov.
*/
func TestMP4Duration_SkipsLeadingBoxes(t *testing.T) {
	file := box("ftyp", []byte("isom\x00\x00\x00\x00"))
	file = append(file, box("free", make([]byte, 24))...)
	file = append(file, box("moov", mvhdV0(1000, 5000))...)
	path := writeTempFile(t, file)

	duration, err := media.MP4Duration(path)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, duration, 0.001)
}

/*
TestMP4Duration_NonMP4 verifies that other containers report zero without
an error, leaving the duration unknown.
*/
func TestMP4Duration_NonMP4(t *testing.T) {
	path := writeTempFile(t, []byte("this is not a video container at all"))

	duration, err := media.MP4Duration(path)
	require.NoError(t, err)
	assert.Zero(t, duration)
}

/*
TestMP4Duration_NoMovieHeader verifies that an MP4 without a moov box
reports zero duration.
*/
func TestMP4Duration_NoMovieHeader(t *testing.T) {
	file := append(box("ftyp", []byte("isom\x00\x00\x00\x00")), box("free", make([]byte, 16))...)
	path := writeTempFile(t, file)

	duration, err := media.MP4Duration(path)
	require.NoError(t, err)
	assert.Zero(t, duration)
}

/*
TestMP4Duration_MissingFile verifies the open failure path.
*/
func TestMP4Duration_MissingFile(t *testing.T) {
	_, err := media.MP4Duration(filepath.Join(t.TempDir(), "missing.mp4"))
	assert.Error(t, err)
}
