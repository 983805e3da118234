package transfer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names accepted by Reader and Writer.
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF8BOM = "utf-8-bom"
	EncodingGB18030 = "gb18030"
)

// Encodings lists the accepted names.
func Encodings() []string {
	return []string{EncodingUTF8, EncodingUTF8BOM, EncodingGB18030}
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EncodingUTF8, "utf8", EncodingUTF8BOM, "utf-8-sig":
		// Decoding strips a leading BOM when present; encoding writes one.
		return unicode.UTF8BOM, nil
	case EncodingGB18030, "gbk", "gb2312":
		return simplifiedchinese.GB18030, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q (use %s)", name, strings.Join(Encodings(), ", "))
	}
}

func decodingReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

func encodingWriter(w io.Writer, name string) (io.WriteCloser, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	return transform.NewWriter(w, enc.NewEncoder()), nil
}
