package engine

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/docker/docker/pkg/stdcopy"
	"github.com/hashicorp/go-multierror"

	"github.com/flotilla-dev/flotilla/pkg/manifest"
)

// Logs streams the logs of every existing container in a cluster to w, each
// line prefixed with the container name. With follow the streams run until
// the context is cancelled or every container detaches.
func (e *Engine) Logs(ctx context.Context, m *manifest.Manifest, cluster string, follow bool, w io.Writer) error {
	members, _, err := e.clusterMembers(ctx, m, cluster)
	if err != nil {
		return err
	}

	var mu sync.Mutex // serializes whole lines onto w
	var wg sync.WaitGroup
	var errs *multierror.Error
	var errMu sync.Mutex

	for _, mb := range members {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rc, err := e.rt.ContainerLogs(ctx, mb.handle, follow)
			if err != nil {
				errMu.Lock()
				errs = multierror.Append(errs, err)
				errMu.Unlock()
				return
			}
			defer rc.Close()

			pw := &prefixWriter{w: w, mu: &mu, prefix: mb.name + " | "}
			// The daemon multiplexes stdout/stderr unless the container has
			// a TTY; demux both onto the same prefixed writer.
			if _, err := stdcopy.StdCopy(pw, pw, rc); err != nil && ctx.Err() == nil {
				errMu.Lock()
				errs = multierror.Append(errs, err)
				errMu.Unlock()
			}
			pw.Flush()
		}()
	}
	wg.Wait()
	return errs.ErrorOrNil()
}

// prefixWriter writes each line with a fixed prefix, holding partial lines
// until a newline arrives.
type prefixWriter struct {
	w      io.Writer
	mu     *sync.Mutex
	prefix string
	buf    []byte
}

func (p *prefixWriter) Write(data []byte) (int, error) {
	p.buf = append(p.buf, data...)
	for {
		i := bytes.IndexByte(p.buf, '\n')
		if i < 0 {
			break
		}
		line := p.buf[:i+1]
		p.mu.Lock()
		_, err := io.WriteString(p.w, p.prefix+string(line))
		p.mu.Unlock()
		if err != nil {
			return len(data), err
		}
		p.buf = p.buf[i+1:]
	}
	return len(data), nil
}

// Flush writes any trailing partial line.
func (p *prefixWriter) Flush() {
	if len(p.buf) == 0 {
		return
	}
	p.mu.Lock()
	io.WriteString(p.w, p.prefix+string(p.buf)+"\n")
	p.mu.Unlock()
	p.buf = nil
}
