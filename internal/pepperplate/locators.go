package pepperplate

import "paprikaplate/internal/browser"

// login.aspx
var (
	loc_login_email    = browser.ByTagID("input", "cphMain_loginForm_tbEmail")
	loc_login_password = browser.ByTagID("input", "cphMain_loginForm_tbPassword")
	loc_login_submit   = browser.ByID("cphMain_loginForm_ibSubmit")
	loc_signed_in      = browser.ByText("a", "Sign Out")
)

// recipe listing
var (
	loc_recipe_count = browser.ByTagID("div", "reclistcount")
	loc_recipe_item  = browser.ByClass("div", "item")
	loc_item_link    = browser.Locator("a")
	loc_load_more    = browser.ByTagID("a", "loadmorelink")
)

// recipe page
var (
	loc_name        = browser.Locator("h2")
	loc_source      = browser.ByClass("a", "source")
	loc_description = browser.ByClass("p", "desc")
	loc_servings    = browser.ByTagID("span", "cphMiddle_cphMain_lblYield")
	loc_prep_time   = browser.ByTagID("span", "cphMiddle_cphMain_lblActiveTime")
	loc_categories  = browser.Within(browser.ByTagID("div", "cphMiddle_cphMain_pnlTags"), "span")
	loc_notes       = browser.ByTagID("span", "cphMiddle_cphMain_lblNotes")
	loc_photo       = browser.ByTagID("img", "cphMiddle_cphMain_imgRecipeThumb")
	loc_ingredients = browser.Within(browser.ByClass("ul", "inggroups"), browser.ByClass("li", "item"))
	loc_directions  = browser.Within(browser.ByClass("ul", "dirgroups"), browser.ByClass("span", "text"))
)
