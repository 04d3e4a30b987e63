package xmlutil

import "errors"

var (
	errNoOpenElement   = errors.New("xmlutil: attribute or text written with no open element")
	errUnclosedElement = errors.New("xmlutil: element left open at Bytes()")
)
