// Package corpus writes the crawl corpus to disk.
//
// The artifact is a single JSON object with one field:
//
//	{
//	  "content": "<section>\n\n---\n\n<section>"
//	}
//
// Its file name comes from the seed URL: the last path segment, or the
// hostname when the path is empty, plus ".json".
package corpus
