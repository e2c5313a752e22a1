package console

import (
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
)

func (c *Console) renderList() {
	state := c.list.State()

	title := "Active products"
	if state.Filter == domain.StatusArchived {
		title = "Archived products"
	}
	c.printf("\n%s\n", title)

	if state.Err != nil {
		c.printf("Failed to load products: %s\n", describe(state.Err))
	}
	if len(state.Products) == 0 {
		c.printf("No products.\n\n")
		return
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	_, _ = tw.Write([]byte("ID\tNAME\tCATEGORY\tPRICE\tDATE\tACTIONS\n"))
	for _, p := range state.Products {
		actions := make([]string, 0, 2)
		for _, a := range c.list.Actions(p) {
			actions = append(actions, string(a))
		}

		_, _ = tw.Write([]byte(strings.Join([]string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.Category,
			p.Price.StringFixed(2),
			p.Date.UTC().Format(time.DateOnly),
			strings.Join(actions, ", "),
		}, "\t") + "\n"))
	}
	_ = tw.Flush()
	c.printf("\n")
}
