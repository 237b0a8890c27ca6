// Package clock exposes the clock shell over gRPC.
//
// The service is described by hand with protobuf well-known types
// (Empty, StringValue, Struct) as messages, so no generated code is needed:
// desc.go holds the service descriptor and client stub, server.go adapts the
// shell, and mapper.go converts between domain alarms and structs.
package clock
