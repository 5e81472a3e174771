package stats

import (
	"io"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/reelkit/errs"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StatReportRender 定義輸出行為
type StatReportRender interface {
	Write(w io.Writer, r *StatReport) error
}

// Json渲染
type JsonStatReportRender struct {
	Indent bool
}

func (jr *JsonStatReportRender) Write(w io.Writer, r *StatReport) error {
	return writeJSON(w, r, jr.Indent)
}

// YAML渲染
type YAMLStatReportRender struct{}

func (yr *YAMLStatReportRender) Write(w io.Writer, r *StatReport) error {
	return forceReadableList(w, r)
}

// ZstdStatReportRender 以 zstd 壓縮內層輸出，大量分桶或玩家報表時使用
type ZstdStatReportRender struct {
	Inner StatReportRender
}

func (zr *ZstdStatReportRender) Write(w io.Writer, r *StatReport) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return errs.Wrap(err, "zstd writer")
	}
	inner := zr.Inner
	if inner == nil {
		inner = &JsonStatReportRender{}
	}
	if err := inner.Write(enc, r); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

type EstimatorRender interface {
	Write(w io.Writer, e *EstimatorPlayers) error
}

// Json渲染
type JsonEstimatorRender struct {
	Indent bool
}

func (jr *JsonEstimatorRender) Write(w io.Writer, e *EstimatorPlayers) error {
	return writeJSON(w, e, jr.Indent)
}

// YAML渲染
type YAMLEstimatorRender struct{}

func (yr *YAMLEstimatorRender) Write(w io.Writer, e *EstimatorPlayers) error {
	return forceReadableList(w, e)
}

// RenderFor 依副檔名選擇輸出格式：.json / .yaml / .yml，外層再加 .zst 表示壓縮（單獨 .zst 視為 JSON）。
func RenderFor(path string) (StatReportRender, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".zst" {
		base := strings.TrimSuffix(path, filepath.Ext(path))
		inner, err := RenderFor(base)
		if err != nil {
			inner = &JsonStatReportRender{}
		}
		return &ZstdStatReportRender{Inner: inner}, nil
	}
	switch ext {
	case ".json":
		return &JsonStatReportRender{Indent: true}, nil
	case ".yaml", ".yml":
		return &YAMLStatReportRender{}, nil
	}
	return nil, errs.Warnf("unsupported report format %q (json|yaml|yml|zst)", ext)
}

// DecodeZstd 讀回壓縮的報表內容
func DecodeZstd(r io.Reader) ([]byte, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, errs.Wrap(err, "zstd reader")
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// 外層陣列維持 block，最內層一維陣列輸出成 flow: [a, b, c]
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	styleReadableSequences(&node)
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
	case yaml.SequenceNode:
		hasChildSeq := false
		for _, c := range n.Content {
			if c != nil && c.Kind == yaml.SequenceNode {
				hasChildSeq = true
			}
			styleReadableSequences(c)
		}
		// 序列內是 mapping（例如 symbols）也維持展開
		if !hasChildSeq && (len(n.Content) == 0 || n.Content[0].Kind == yaml.ScalarNode) {
			n.Style = yaml.FlowStyle
		}
	}
}
