// Package chat runs one completion round against the saved conversation.
//
// Flow:
//
//	load -> append(user) -> send last 2 -> append(assistant) -> keep last 10 -> persist -> print Q/A
//
// Only the trailing window is transmitted; older retained messages stay on
// disk as context for later rounds but are never sent.
package chat
