/*
Package server implements msgpack IPC for selection controller sessions.

The server package exposes the selection core over stdin/stdout using binary
msgpack encoding. A host process (editor plugin, browser shell prototype)
attaches one session per input field and streams text changes and key events
into it; the server reports the resulting field, list and selection state.

# IPC

The protocol is request/response. Each message carries an ID and a command:

	{"id": "req_001", "cmd": "attach", "sid": "bar1"}
	{"id": "req_002", "cmd": "type", "sid": "bar1", "text": "cats"}
	{"id": "req_003", "cmd": "key", "sid": "bar1", "key": "enter"}
	{"id": "req_004", "cmd": "state", "sid": "bar1"}

Responses echo the ID and include the session state after the event settled
on the event loop:

	{"id": "req_003", "status": "ok", "value": "cats", "count": 2, "selected": 1, "awaiting": false, "t": 210}

All session mutations run on the shared event loop, so a response reflects a
state the controller actually passed through. Deferred work (the bounded
Enter-wait) may still land afterwards; clients poll with "state".

msgpack keeps messages compact and parsing cheap compared to JSON, which
matters at per-keystroke rates.
*/
package server

// Request is an incoming IPC message.
type Request struct {
	ID      string   `msgpack:"id"`
	Command string   `msgpack:"cmd"`
	Session string   `msgpack:"sid,omitempty"`
	Text    string   `msgpack:"text,omitempty"`
	Key     string   `msgpack:"key,omitempty"`
	Mods    []string `msgpack:"mods,omitempty"`
}

// Response reports the session state after a command.
type Response struct {
	ID        string `msgpack:"id"`
	Status    string `msgpack:"status"`
	Error     string `msgpack:"error,omitempty"`
	Value     string `msgpack:"value,omitempty"`
	Caret     int    `msgpack:"caret,omitempty"`
	Count     int    `msgpack:"count,omitempty"`
	Selected  int    `msgpack:"selected,omitempty"`
	Awaiting  bool   `msgpack:"awaiting,omitempty"`
	Consumed  bool   `msgpack:"consumed,omitempty"`
	Commits   int    `msgpack:"commits,omitempty"`
	Committed string `msgpack:"committed,omitempty"`
	TimeTaken int64  `msgpack:"t,omitempty"`
}
