// Package common provides the data structures and utilities shared by the
// serializers and the command line tools: the message used to compare the
// in-arena encoding with the reference formats, the tool configuration and
// the logger setup.
//
// Key Components:
//
//   - Message: Sample payload for serializer round trips and benchmarks.
//     It mixes fixed-size fields, strings, optional byte slices (where nil
//     and empty are distinct) and a list of strings, so every arena type
//     family is exercised.
//
//   - MessageKind: Enumeration of message kinds, encoded as a single byte in
//     binary formats and as a string in JSON.
//
//   - Config: Settings of the command line tools (log level, serializer,
//     schema sources, buffer limit, output format), with validation that
//     reports every invalid setting at once.
//
//   - Logger: Custom logger implementing the Dragonboat logger interface, so
//     every package logs through logger.GetLogger with consistent formatting.
package common
