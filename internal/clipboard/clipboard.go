// Package clipboard converts transfer payloads to and from block
// sequences.
//
// Paste runs through an interceptor chain: each converter inspects the
// payload and either produces blocks or passes. The first producer
// wins. Copy is the reverse direction, serializing the selected blocks
// into a transfer the paste side round-trips losslessly.
package clipboard

import (
	"github.com/crazyrex/sanity/internal/block"
	"github.com/crazyrex/sanity/internal/pipeline"
)

// Converter turns one transfer representation into blocks. handled is
// false when the converter does not recognize the payload.
type Converter interface {
	Convert(t pipeline.Transfer) (blocks []block.Block, handled bool, err error)
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(t pipeline.Transfer) ([]block.Block, bool, error)

// Convert implements Converter.
func (f ConverterFunc) Convert(t pipeline.Transfer) ([]block.Block, bool, error) {
	return f(t)
}

// Chain tries converters in order and returns the first handled result.
type Chain struct {
	converters []Converter
}

// NewChain builds a converter chain. Order is priority.
func NewChain(converters ...Converter) *Chain {
	return &Chain{converters: converters}
}

// Default returns the stock chain: native blocks, then markdown, then
// plain text.
func Default() *Chain {
	return NewChain(Native{}, Markdown{}, PlainText{})
}

// Convert runs the chain. handled is false when every converter passed.
func (c *Chain) Convert(t pipeline.Transfer) ([]block.Block, bool, error) {
	for _, conv := range c.converters {
		blocks, handled, err := conv.Convert(t)
		if err != nil {
			return nil, true, err
		}
		if handled {
			return blocks, true, nil
		}
	}
	return nil, false, nil
}

// Native round-trips blocks serialized by Copy.
type Native struct{}

// Convert implements Converter.
func (Native) Convert(t pipeline.Transfer) ([]block.Block, bool, error) {
	raw, ok := t.Data[pipeline.TransferBlock]
	if !ok {
		return nil, false, nil
	}
	blocks, err := block.ParseAll([]byte(raw))
	if err != nil {
		return nil, true, err
	}
	return blocks, true, nil
}

// PlainText turns plain text into normal paragraphs, one block per
// blank-line separated chunk with single newlines kept as soft breaks.
type PlainText struct{}

// Convert implements Converter.
func (PlainText) Convert(t pipeline.Transfer) ([]block.Block, bool, error) {
	if !t.Has(pipeline.TransferText) || t.Text == "" {
		return nil, false, nil
	}
	var blocks []block.Block
	for _, chunk := range splitParagraphs(t.Text) {
		blocks = append(blocks, block.Block{
			Key:   block.NewKey(),
			Type:  block.TypeBlock,
			Style: "normal",
			Children: []block.Child{
				{Key: block.NewKey(), Type: block.TypeSpan, Text: chunk},
			},
		})
	}
	if len(blocks) == 0 {
		return nil, false, nil
	}
	return blocks, true, nil
}

// splitParagraphs splits on blank lines, trimming trailing newlines per
// chunk.
func splitParagraphs(s string) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '\n' && s[i+1] == '\n' {
			if chunk := s[start:i]; chunk != "" {
				out = append(out, chunk)
			}
			i++
			start = i + 1
		}
	}
	if chunk := trimTrailingNewlines(s[start:]); chunk != "" {
		out = append(out, chunk)
	}
	return out
}

func trimTrailingNewlines(s string) string {
	for len(s) > 0 && s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	return s
}

// Copy serializes blocks into a transfer carrying both the native
// representation and a plain-text fallback.
func Copy(blocks []block.Block) (pipeline.Transfer, error) {
	raw, err := block.MarshalAll(blocks)
	if err != nil {
		return pipeline.Transfer{}, err
	}
	var text string
	for i, b := range blocks {
		if i > 0 {
			text += "\n\n"
		}
		text += b.Text()
	}
	return pipeline.Transfer{
		Kinds: []string{pipeline.TransferBlock, pipeline.TransferText},
		Text:  text,
		Data: map[string]string{
			pipeline.TransferBlock: string(raw),
			pipeline.TransferText:  text,
		},
	}, nil
}
