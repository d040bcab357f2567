package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/ternarybob/peto/internal/interfaces"
)

// element wraps a resolved DOM node. Operations address the node by its
// full XPath so they keep working after sibling queries invalidate the
// original CSS match.
type element struct {
	session *Session
	node    *cdp.Node
}

func (e *element) Text(ctx context.Context) (string, error) {
	var text string
	err := e.session.run(chromedp.Text(e.node.FullXPath(), &text, chromedp.BySearch, chromedp.AtLeast(0)))
	if err != nil {
		return "", fmt.Errorf("failed to read element text: %w", err)
	}
	return text, nil
}

func (e *element) Attr(name string) (string, bool) {
	attrs := e.node.Attributes
	for i := 0; i < len(attrs)-1; i += 2 {
		if attrs[i] == name {
			return attrs[i+1], true
		}
	}
	return "", false
}

func (e *element) Click(ctx context.Context) error {
	if err := e.session.run(chromedp.MouseClickNode(e.node)); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (e *element) Fill(ctx context.Context, value string) error {
	xpath := e.node.FullXPath()
	err := e.session.run(
		chromedp.Clear(xpath, chromedp.BySearch),
		chromedp.SendKeys(xpath, value, chromedp.BySearch),
	)
	if err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

func (e *element) TypeAndEnter(ctx context.Context, value string) error {
	xpath := e.node.FullXPath()
	err := e.session.run(
		chromedp.Clear(xpath, chromedp.BySearch),
		chromedp.SendKeys(xpath, value+kb.Enter, chromedp.BySearch),
	)
	if err != nil {
		return fmt.Errorf("type-and-enter failed: %w", err)
	}
	return nil
}

func (e *element) Upload(ctx context.Context, path string) error {
	err := e.session.run(chromedp.SetUploadFiles(e.node.FullXPath(), []string{path}, chromedp.BySearch))
	if err != nil {
		return fmt.Errorf("file upload failed: %w", err)
	}
	return nil
}

func (e *element) FindAll(ctx context.Context, selector string) ([]interfaces.Element, error) {
	nodes, err := e.session.queryNodes(selector, e.node)
	if err != nil {
		return nil, err
	}
	elements := make([]interfaces.Element, 0, len(nodes))
	for _, node := range nodes {
		elements = append(elements, &element{session: e.session, node: node})
	}
	return elements, nil
}
