package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// input
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IOFileTooLarge  Code = 4002
	IOReadFailure   Code = 4003

	// decoder
	DecInfo          Code = 5000
	DecInvalidTag    Code = 5001
	DecUnexpectedEOF Code = 5002
	DecDepthLimit    Code = 5003
	DecTrailingData  Code = 5004
	DecEmptyProgram  Code = 5005

	// configuration and command line
	CliInfo          Code = 6000
	CliConfigInvalid Code = 6001
	CliConfigUnknown Code = 6002
	CliCacheFailure  Code = 6003
)

var codeDescription = map[Code]string{
	UnknownCode:      "Unknown error",
	IOInfo:           "Input information",
	IOLoadFileError:  "Cannot read input file",
	IOFileTooLarge:   "Input file too large",
	IOReadFailure:    "Input stream failure",
	DecInfo:          "Decoder information",
	DecInvalidTag:    "Invalid tag",
	DecUnexpectedEOF: "Unexpected end of stream",
	DecDepthLimit:    "Nesting too deep",
	DecTrailingData:  "Trailing data after program",
	DecEmptyProgram:  "Empty program",
	CliInfo:          "Command information",
	CliConfigInvalid: "Invalid configuration",
	CliConfigUnknown: "Unknown configuration key",
	CliCacheFailure:  "Cache unavailable",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("DEC%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("CLI%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
