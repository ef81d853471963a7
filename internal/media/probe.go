// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package media

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// # MP4 Duration Probe

var errNoMovieHeader = errors.New("media: no movie header box found")

/*
MP4Duration reads the duration of an MP4/MOV container from its movie
header (mvhd) box.

Object stores do not extract media metadata on upload, so the duration
has to come from the staged local file before it is removed. Only the
ISO base media file format is understood; other containers report a
zero duration without an error so callers can treat them as unknown.

Parameters:
  - localPath: path to the staged media file on local disk.

Returns:
  - float64: duration in seconds, 0 when the container is not MP4.
  - error: read or parse failure on an MP4 container.
*/
func MP4Duration(localPath string) (float64, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return 0, fmt.Errorf("mp4_probe_open_failed: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return 0, fmt.Errorf("mp4_probe_stat_failed: %w", err)
	}

	if !isMP4(file) {
		return 0, nil
	}

	duration, err := findMovieHeader(file, 0, info.Size())
	if err != nil {
		if errors.Is(err, errNoMovieHeader) {
			return 0, nil
		}
		return 0, err
	}
	return duration, nil
}

// isMP4 checks for the ftyp box that leads every ISO base media file.
func isMP4(file *os.File) bool {
	header := make([]byte, 8)
	if _, err := file.ReadAt(header, 0); err != nil {
		return false
	}
	return string(header[4:8]) == "ftyp"
}

// findMovieHeader walks top-level boxes in [start, end), descends into
// moov, and decodes the first mvhd it finds.
func findMovieHeader(file *os.File, start, end int64) (float64, error) {
	offset := start
	header := make([]byte, 8)

	for offset+8 <= end {
		if _, err := file.ReadAt(header, offset); err != nil {
			return 0, fmt.Errorf("mp4_probe_read_failed: %w", err)
		}

		boxSize := int64(binary.BigEndian.Uint32(header[0:4]))
		boxType := string(header[4:8])
		headerSize := int64(8)

		switch boxSize {
		case 0:
			// Box extends to end of file.
			boxSize = end - offset
		case 1:
			// 64-bit size follows the type.
			wide := make([]byte, 8)
			if _, err := file.ReadAt(wide, offset+8); err != nil {
				return 0, fmt.Errorf("mp4_probe_read_failed: %w", err)
			}
			boxSize = int64(binary.BigEndian.Uint64(wide))
			headerSize = 16
		}
		if boxSize < headerSize {
			return 0, fmt.Errorf("mp4_probe_invalid_box_size: %q at offset %d", boxType, offset)
		}

		switch boxType {
		case "moov":
			return findMovieHeader(file, offset+headerSize, offset+boxSize)
		case "mvhd":
			return decodeMovieHeader(file, offset+headerSize)
		}

		offset += boxSize
	}
	return 0, errNoMovieHeader
}

// decodeMovieHeader reads timescale and duration from an mvhd payload.
// Version 0 stores them as 32-bit values after creation and
// modification times; version 1 widens the times and duration to 64
// bits.
func decodeMovieHeader(file *os.File, payloadOffset int64) (float64, error) {
	buf := make([]byte, 32)
	if _, err := file.ReadAt(buf, payloadOffset); err != nil && err != io.EOF {
		return 0, fmt.Errorf("mp4_probe_read_failed: %w", err)
	}

	version := buf[0]
	switch version {
	case 0:
		timescale := binary.BigEndian.Uint32(buf[12:16])
		duration := binary.BigEndian.Uint32(buf[16:20])
		if timescale == 0 {
			return 0, nil
		}
		return float64(duration) / float64(timescale), nil
	case 1:
		timescale := binary.BigEndian.Uint32(buf[20:24])
		duration := binary.BigEndian.Uint64(buf[24:32])
		if timescale == 0 {
			return 0, nil
		}
		return float64(duration) / float64(timescale), nil
	default:
		return 0, fmt.Errorf("mp4_probe_unknown_mvhd_version: %d", version)
	}
}
