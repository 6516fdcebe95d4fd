// Package librender encodes UI mutation instructions (create element, set
// attribute, append child, text, style, event listeners) into a compact binary
// stream for a separate execution engine.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	librender/         Root package with the Memory interface used by sinks
//	├── bytecode/      Growable, lockable byte buffer; editing and composition
//	├── opcode/        Opcode table: values, names and field layout
//	├── encoder/       Instruction encoder writing opcodes and fields
//	├── sink/          File, io.Writer and WebAssembly memory destinations
//	├── script/        JSON and MessagePack instruction scripts
//	├── config/        librender.toml configuration
//	├── errors/        Structured error types
//	└── cmd/librender  Command line compiler and interactive builder
//
// # Wire Format
//
// A stream is a headerless concatenation of instructions. Each instruction is
// one opcode byte followed by the fields listed in the opcode table; each field
// is a one-byte length and that many raw bytes:
//
//	[opcode][len][bytes...][len][bytes...]...
//
// There is no stream header, checksum or version. Field bytes are opaque.
//
// # Quick Start
//
//	buf, err := bytecode.New(0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	enc := encoder.New(buf)
//	_ = enc.CreateElement("div")      // 01 03 'd' 'i' 'v'
//	_ = enc.SetAttribute("id", "app") // 02 02 'i' 'd' 03 'a' 'p' 'p'
//	buf.Lock()
//
//	if err := sink.WriteFile(buf, "app.bin"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// A Buffer and the Encoder writing to it must be used by a single goroutine.
// Locking a buffer rejects mutation but does not synchronize access. A
// bytecode.Pool may be shared between goroutines.
package librender
