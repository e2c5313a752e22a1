package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/DRSN-tech/inventory-backend/internal/controller"
	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
)

var errQuit = errors.New("quit")

// Console: терминальный фронтенд: экран списка и формы добавления/редактирования.
type Console struct {
	in     io.Reader
	out    io.Writer
	uc     usecase.ProductUC
	logger logger.Logger

	lines chan string
	done  chan struct{}
	route string

	list *controller.ListController
	add  *controller.AddForm
	edit *controller.EditForm
}

func NewConsole(uc usecase.ProductUC, in io.Reader, out io.Writer, logger logger.Logger) *Console {
	c := &Console{
		in:     in,
		out:    out,
		uc:     uc,
		logger: logger,
		lines:  make(chan string),
		done:   make(chan struct{}),
		route:  controller.RouteList,
	}

	nav := controller.NavigatorFunc(func(route string) { c.route = route })
	c.list = controller.NewListController(uc, usecase.ConfirmFunc(c.confirm), logger)
	c.add = controller.NewAddForm(uc, nav, logger)
	c.edit = controller.NewEditForm(uc, nav, logger)

	return c
}

// Run читает команды до quit, конца ввода или отмены ctx.
func (c *Console) Run(ctx context.Context) error {
	go c.readLines()
	defer close(c.done)

	if err := c.list.Mount(ctx); err != nil {
		c.logger.Warnf("initial load failed: %v", err)
	}
	c.renderList()
	c.printf("Type \"help\" for the list of commands.\n")

	for {
		c.printf("> ")
		line, ok := c.readLine(ctx)
		if !ok {
			return nil
		}

		err := c.exec(ctx, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			c.printErr(err)
		}
	}
}

func (c *Console) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()
		return nil
	case "quit", "exit", "q":
		return errQuit
	case "list", "ls":
		err := c.list.Refresh(ctx)
		c.renderList()
		return err
	case "toggle", "t":
		err := c.list.ToggleFilter(ctx)
		c.renderList()
		return err
	case "categories":
		c.printf("%s\n", strings.Join(c.uc.Categories(), ", "))
		return nil
	case "add":
		return c.runAdd(ctx)
	case "edit":
		if len(args) != 1 {
			return e.ErrInvalidID
		}
		return c.runEdit(ctx, args[0])
	case "archive", "restore", "delete":
		if len(args) != 1 {
			return e.ErrInvalidID
		}
		return c.runTransition(ctx, domain.Action(cmd), args[0])
	case "export":
		return c.runExport(ctx, args)
	default:
		return fmt.Errorf("unknown command %q, type \"help\"", cmd)
	}
}

func (c *Console) runAdd(ctx context.Context) error {
	c.route = controller.RouteAdd
	c.printf("New product (categories: %s)\n", strings.Join(c.uc.Categories(), ", "))

	product, ok, err := c.fillForm(ctx, c.add)
	if !ok || err != nil {
		c.add.Cancel()
		return err
	}

	c.printf("Product %d created.\n", product.ID)
	return c.backToList(ctx)
}

func (c *Console) runEdit(ctx context.Context, rawID string) error {
	c.route = "/edit/" + rawID

	if err := c.edit.Mount(ctx, rawID); err != nil {
		return err
	}
	c.printf("Editing product %d (press Enter to keep a value)\n", c.edit.ID())

	product, ok, err := c.fillForm(ctx, c.edit)
	if !ok || err != nil {
		c.edit.Cancel()
		return err
	}

	c.printf("Product %d updated.\n", product.ID)
	return c.backToList(ctx)
}

type form interface {
	Draft() controller.ProductDraft
	SetDraft(d controller.ProductDraft)
	Submit(ctx context.Context) (*domain.Product, error)
}

// fillForm запрашивает поля, пока форма не примет их. При ошибке валидации
// форма остаётся открытой, введённые значения подставляются как значения по умолчанию.
// ok == false: ввод закончился до отправки.
func (c *Console) fillForm(ctx context.Context, f form) (*domain.Product, bool, error) {
	for {
		draft, ok := c.promptDraft(ctx, f.Draft())
		if !ok {
			return nil, false, nil
		}
		f.SetDraft(draft)

		product, err := f.Submit(ctx)
		if err == nil {
			return product, true, nil
		}
		if !errors.Is(err, e.ErrValidation) {
			return nil, true, err
		}
		c.printErr(err)
	}
}

func (c *Console) runTransition(ctx context.Context, action domain.Action, rawID string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return e.ErrInvalidID
	}

	var res *usecase.TransitionRes
	switch action {
	case domain.ActionArchive:
		res, err = c.list.Archive(ctx, id)
	case domain.ActionRestore:
		res, err = c.list.Restore(ctx, id)
	default:
		res, err = c.list.Delete(ctx, id)
	}
	if err != nil {
		return err
	}

	if !res.Applied {
		c.printf("Cancelled.\n")
		return nil
	}

	c.printf("Product %d: %s done.\n", id, action)
	c.renderList()
	return nil
}

func (c *Console) runExport(ctx context.Context, args []string) error {
	status := domain.StatusActive
	if len(args) > 0 {
		var err error
		if status, err = domain.ParseStatus(args[0]); err != nil {
			return err
		}
	}

	res, err := c.uc.ExportCatalog(ctx, &usecase.ExportCatalogReq{Status: status})
	if err != nil {
		return err
	}

	c.printf("Exported %d products to %s\n", res.Count, res.Key)
	return nil
}

func (c *Console) backToList(ctx context.Context) error {
	if c.route != controller.RouteList {
		return nil
	}

	err := c.list.Refresh(ctx)
	c.renderList()
	return err
}

func (c *Console) promptDraft(ctx context.Context, current controller.ProductDraft) (controller.ProductDraft, bool) {
	var ok bool
	draft := current

	if draft.Name, ok = c.prompt(ctx, "Name", current.Name); !ok {
		return current, false
	}
	if draft.Category, ok = c.prompt(ctx, "Category", current.Category); !ok {
		return current, false
	}
	if draft.Price, ok = c.prompt(ctx, "Price", current.Price); !ok {
		return current, false
	}

	return draft, true
}

func (c *Console) prompt(ctx context.Context, label, def string) (string, bool) {
	if def != "" {
		c.printf("%s [%s]: ", label, def)
	} else {
		c.printf("%s: ", label)
	}

	line, ok := c.readLine(ctx)
	if !ok {
		return "", false
	}
	if strings.TrimSpace(line) == "" {
		return def, true
	}
	return line, true
}

// confirm задаёт вопрос да/нет. Всё, кроме y/yes, считается отказом.
func (c *Console) confirm(ctx context.Context, question string) (bool, error) {
	c.printf("%s [y/N]: ", question)

	line, ok := c.readLine(ctx)
	if !ok {
		return false, ctx.Err()
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (c *Console) readLines() {
	defer close(c.lines)

	sc := bufio.NewScanner(c.in)
	for sc.Scan() {
		select {
		case c.lines <- sc.Text():
		case <-c.done:
			return
		}
	}
	if err := sc.Err(); err != nil {
		c.logger.Warnf("console input: %v", err)
	}
}

func (c *Console) readLine(ctx context.Context) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-c.lines:
		return line, ok
	}
}

func (c *Console) printErr(err error) {
	c.printf("Error: %s\n", describe(err))
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *Console) printHelp() {
	c.printf(`Commands:
  list                 reload the product list
  toggle               switch between active and archived products
  add                  add a product
  edit <id>            edit an active product
  archive <id>         move a product to the archive
  restore <id>         restore an archived product
  delete <id>          permanently delete an archived product
  export [status]      upload a CSV snapshot (active, archived, all)
  categories           show available categories
  quit                 exit
`)
}

// describe переводит ошибку в сообщение для пользователя без цепочки op-префиксов.
func describe(err error) string {
	switch {
	case errors.Is(err, e.ErrValidation):
		for _, target := range []error{
			e.ErrProductNameRequired, e.ErrCategoryRequired, e.ErrUnknownCategory, e.ErrPriceRequired,
			e.ErrInvalidPrice, e.ErrPricePrecision, e.ErrNoFieldsToUpdate, e.ErrInvalidID, e.ErrInvalidStatus,
		} {
			if errors.Is(err, target) {
				return strings.TrimPrefix(target.Error(), e.ErrValidation.Error()+": ")
			}
		}
		return err.Error()
	case errors.Is(err, e.ErrNotFound):
		return e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrTransitionNotAllowed):
		return "this action is not available for the product in its current state"
	case errors.Is(err, e.ErrStore):
		return "storage is unavailable, try again later"
	default:
		return err.Error()
	}
}
