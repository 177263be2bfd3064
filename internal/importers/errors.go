package importers

import "errors"

// ErrInvalidIdentifier is returned when the input holds no Notion ID.
var ErrInvalidIdentifier = errors.New("no Notion ID found in input, expected an ID or a notion.so URL")

// ErrMissingCredential is returned when no API key is configured.
var ErrMissingCredential = errors.New("no Notion API key found, run `journo set-api-key <key>` first")
