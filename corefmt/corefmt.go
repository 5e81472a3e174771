// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package corefmt 亂數核心快照的文字與二進位編碼。
//
// 文字格式（JSON、日誌）一律用 base64url（無 padding）；
// 檔案格式為 uvarint 長度前綴的 frame，可連續寫入多個快照。
package corefmt

import (
	"bufio"
	"encoding/base64"
	"encoding/binary"
	"io"

	"github.com/zintix-labs/reelkit/errs"
)

// MaxSnapBytes 讀取快照 frame 的上限
const MaxSnapBytes uint64 = 1 << 16

func EncodeSnap(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeSnap(s string) ([]byte, error) {
	if s == "" {
		return nil, errs.NewWarn("decode snapshot failed: empty string")
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(err, "decode snapshot failed")
	}
	return b, nil
}

// WriteFrame 寫入 uvarint(len) || payload
func WriteFrame(w io.Writer, payload []byte) error {
	var hdr [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(hdr[:], uint64(len(payload)))
	if _, err := w.Write(hdr[:n]); err != nil {
		return errs.Wrap(err, "write frame header failed")
	}
	if _, err := w.Write(payload); err != nil {
		return errs.Wrap(err, "write frame payload failed")
	}
	return nil
}

// FrameReader 依序讀出 WriteFrame 寫入的 frame
type FrameReader struct {
	br  *bufio.Reader
	max uint64
}

func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{br: bufio.NewReader(r), max: MaxSnapBytes}
}

// Next 讀下一個 frame；讀完回傳 io.EOF
func (f *FrameReader) Next() ([]byte, error) {
	ln, err := binary.ReadUvarint(f.br)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errs.Wrap(err, "read frame header failed")
	}
	if ln > f.max {
		return nil, errs.Warnf("read frame failed: %d bytes exceeds %d", ln, f.max)
	}
	buf := make([]byte, ln)
	if _, err := io.ReadFull(f.br, buf); err != nil {
		return nil, errs.Wrap(err, "read frame payload failed")
	}
	return buf, nil
}
