// Package crawler enumerates bills for one legislative year by walking the
// listing pages commission by commission, fetching each new bill's detail
// page, and attributing ministries in a second sweep.
package crawler
