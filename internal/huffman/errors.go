package huffman

import "fmt"

// Every error returned by this package wraps exactly one of these kinds.
var ErrIO = fmt.Errorf("huffman: i/o error")
var ErrFormat = fmt.Errorf("huffman: malformed container")
var ErrTruncatedStream = fmt.Errorf("huffman: payload ended before the end-of-stream code")
var ErrCodeLengthOverflow = fmt.Errorf("huffman: code length exceeds %d bits", MaxCodeLength)
