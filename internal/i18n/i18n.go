package i18n

import (
	"context"

	"github.com/PauloHFS/goth-blog/internal/contextkeys"
)

type Translation struct {
	Login        string
	Logout       string
	Email        string
	Password     string
	ListTitle    string
	MyListTitle  string
	DetailTitle  string
	NewPost      string
	Edit         string
	Delete       string
	Save         string
	Search       string
	Previous     string
	Next         string
	PageOf       string // "Page %d of %d"
	NoPosts      string
	LoginToList  string
	Draft        string
	Scheduled    string
	Title        string
	Content      string
	PublishDate  string
	Image        string
	NotFound     string
	PostCreated  string
	PostUpdated  string
	PostDeleted  string
	InvalidLogin string
}

var ptBR = Translation{
	Login:        "Entrar",
	Logout:       "Sair",
	Email:        "E-mail",
	Password:     "Senha",
	ListTitle:    "Posts",
	MyListTitle:  "Meus posts",
	DetailTitle:  "Detalhe",
	NewPost:      "Novo post",
	Edit:         "Editar",
	Delete:       "Excluir",
	Save:         "Salvar",
	Search:       "Buscar",
	Previous:     "Anterior",
	Next:         "Próxima",
	PageOf:       "Página %d de %d",
	NoPosts:      "Nenhum post encontrado.",
	LoginToList:  "Entre para ver os posts.",
	Draft:        "Rascunho",
	Scheduled:    "Agendado",
	Title:        "Título",
	Content:      "Conteúdo",
	PublishDate:  "Data de publicação",
	Image:        "Imagem",
	NotFound:     "Página não encontrada",
	PostCreated:  "Post criado",
	PostUpdated:  "Post atualizado",
	PostDeleted:  "Post excluído",
	InvalidLogin: "Usuário ou senha inválidos",
}

var enUS = Translation{
	Login:        "Login",
	Logout:       "Logout",
	Email:        "Email",
	Password:     "Password",
	ListTitle:    "List",
	MyListTitle:  "My list",
	DetailTitle:  "Detail",
	NewPost:      "New post",
	Edit:         "Edit",
	Delete:       "Delete",
	Save:         "Save",
	Search:       "Search",
	Previous:     "Previous",
	Next:         "Next",
	PageOf:       "Page %d of %d",
	NoPosts:      "No posts found.",
	LoginToList:  "Log in to see the posts.",
	Draft:        "Draft",
	Scheduled:    "Scheduled",
	Title:        "Title",
	Content:      "Content",
	PublishDate:  "Publish date",
	Image:        "Image",
	NotFound:     "Not found",
	PostCreated:  "Post Created",
	PostUpdated:  "Post Updated",
	PostDeleted:  "Post Deleted",
	InvalidLogin: "Invalid email or password",
}

// DefaultLocale is used when the request carries no usable preference.
const DefaultLocale = "en"

var catalog = map[string]Translation{
	"en": enUS,
	"pt": ptBR,
}

func Supported(locale string) bool {
	_, ok := catalog[locale]
	return ok
}

// Get returns the translations for the locale in the context
func Get(ctx context.Context) Translation {
	locale, _ := ctx.Value(contextkeys.LocaleKey).(string)
	if t, ok := catalog[locale]; ok {
		return t
	}
	return catalog[DefaultLocale]
}
