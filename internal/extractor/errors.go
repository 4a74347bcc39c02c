package extractor

import "errors"

// ErrUnreadableFile marks input bytes that cannot be opened as a supported
// spreadsheet container. No partial record is ever produced alongside it.
var ErrUnreadableFile = errors.New("file is not a readable spreadsheet")

// ErrMalformedTemplate marks a workbook that opened fine but does not carry
// the expected invoice template structure (e.g. no worksheet).
var ErrMalformedTemplate = errors.New("workbook does not match the invoice template")
