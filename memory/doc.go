// Package memory provides the persisted chat conversation.
//
// Persistence model:
//   - The save file is a pretty-printed JSON array of {role, content} objects.
//   - A missing or unparsable file is not an error: the conversation falls
//     back to a single default system message and Load reports why.
//   - The file is read then overwritten with no locking; last writer wins.
package memory
