// Package markdown turns raw article sources into their parts: the `---`
// delimited metadata header, the markdown body, rendered HTML and a plain
// text summary. It also discovers article files on disk. Normalising those
// parts into article records is left to the articles package.
package markdown
